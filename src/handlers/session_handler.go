// backend/src/handlers/session_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/username/chindiferencia/backend/src/exporters"
	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/security/validation"
	"github.com/username/chindiferencia/backend/src/services"
	"github.com/username/chindiferencia/backend/src/utils"
)

type SessionHandler struct {
	store *services.SessionStore
	now   func() time.Time
}

func NewSessionHandler(store *services.SessionStore) *SessionHandler {
	return &SessionHandler{store: store, now: time.Now}
}

// FiltersFromQuery reads the filter selection from query parameters. Absent
// parameters select everything.
func FiltersFromQuery(q url.Values) (models.Filters, error) {
	f := models.DefaultFilters()
	fields := map[string]*string{
		"date":     &f.Date,
		"agent":    &f.Agent,
		"operator": &f.Operator,
		"wallet":   &f.Wallet,
		"turn":     &f.Shift,
		"status":   &f.Status,
		"movement": &f.Movement,
	}
	for name, dst := range fields {
		if !q.Has(name) {
			continue
		}
		v := q.Get(name)
		if err := validation.ValidateStringMaxLength(v, validation.MaxFilterValueLength, name); err != nil {
			return f, err
		}
		*dst = v
	}
	return f, f.Validate()
}

// session resolves the {sessionID} URL parameter, writing the error response itself.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	if err := validation.ValidateSessionID(id); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	sess, err := h.store.GetSession(id)
	if err != nil {
		utils.SendJSONError(w, "Sesión no encontrada o expirada", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func (h *SessionHandler) filters(w http.ResponseWriter, r *http.Request) (models.Filters, bool) {
	f, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return f, false
	}
	return f, true
}

// HandleGetSession returns the filtered view, honouring If-None-Match.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	f, ok := h.filters(w, r)
	if !ok {
		return
	}

	view := sess.View(f)

	w.Header().Set("Cache-Control", "no-cache, private")
	etag, err := utils.GenerateETag(view)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to generate ETag for session view", "sessionID", sess.ID, "error", err)
	} else {
		quoted := fmt.Sprintf("%q", etag)
		w.Header().Set("ETag", quoted)
		if utils.ETagMatches(r, quoted) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

type ignoreResponse struct {
	RecordID string             `json:"record_id"`
	Ignored  bool               `json:"ignored"`
	Summary  models.SummaryData `json:"summary"`
}

// HandleToggleIgnore flips one record in or out of the totals and returns the
// summary for the current filters.
func (h *SessionHandler) HandleToggleIgnore(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	f, ok := h.filters(w, r)
	if !ok {
		return
	}

	recordID := chi.URLParam(r, "recordID")
	if err := validation.ValidateRecordID(recordID); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ignored, err := sess.ToggleIgnore(recordID)
	if errors.Is(err, services.ErrRecordNotFound) {
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	logger.FromContext(r.Context()).Debug("Ignore toggled", "sessionID", sess.ID, "recordID", recordID, "ignored", ignored)

	utils.WriteJSON(w, http.StatusOK, ignoreResponse{
		RecordID: recordID,
		Ignored:  ignored,
		Summary:  sess.View(f).Summary,
	})
}

// HandleExport returns a handler that downloads the active records through e.
func (h *SessionHandler) HandleExport(e exporters.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.session(w, r)
		if !ok {
			return
		}
		f, ok := h.filters(w, r)
		if !ok {
			return
		}

		var buf bytes.Buffer
		err := e.Export(&buf, sess.ActiveRecords(f))
		if errors.Is(err, exporters.ErrNothingToExport) {
			utils.SendJSONError(w, "No hay datos activos para exportar", http.StatusConflict)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).Error("Export failed", "sessionID", sess.ID, "format", e.Extension(), "error", err)
			utils.SendJSONError(w, "Error al generar el archivo", http.StatusInternalServerError)
			return
		}

		name := exporters.ExportFileName(e.Extension(), h.now())
		w.Header().Set("Content-Type", e.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			logger.FromContext(r.Context()).Warn("Failed to write export body", "error", err)
		}
	}
}

func (h *SessionHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := validation.ValidateSessionID(id); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !h.store.DeleteSession(id) {
		utils.SendJSONError(w, "Sesión no encontrada o expirada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
