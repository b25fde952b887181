// backend/src/handlers/router.go
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/username/chindiferencia/backend/src/config"
	"github.com/username/chindiferencia/backend/src/exporters"
	"github.com/username/chindiferencia/backend/src/services"
	"github.com/username/chindiferencia/backend/src/utils"
)

// NewRouter wires the API routes and middleware stack.
func NewRouter(cfg *config.AppConfig, service services.ReconciliationService, store *services.SessionStore) http.Handler {
	reconcileHandler := NewReconcileHandler(service, store, cfg.MaxUploadSizeBytes)
	sessionHandler := NewSessionHandler(store)
	csvExporter := exporters.NewCSVExporter()
	xlsxExporter := exporters.NewXLSXExporter(cfg.Location)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(ContextualLoggerMiddleware)
	r.Use(ProxyHeadersMiddleware)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(RateLimitMiddleware(cfg.RateLimitInterval, cfg.RateLimitBurst))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Chindiferencia backend is running"})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": store.Count(),
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/reconcile", reconcileHandler.HandleReconcile)

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.HandleGetSession)
			r.Delete("/", sessionHandler.HandleDeleteSession)
			r.Post("/ignore/{recordID}", sessionHandler.HandleToggleIgnore)
			r.Get("/export.csv", sessionHandler.HandleExport(csvExporter))
			r.Get("/export.xlsx", sessionHandler.HandleExport(xlsxExporter))
		})
	})

	return r
}
