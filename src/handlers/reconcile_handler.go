// backend/src/handlers/reconcile_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/username/chindiferencia/backend/src/logger"
	"github.com/username/chindiferencia/backend/src/models"
	"github.com/username/chindiferencia/backend/src/security/validation"
	"github.com/username/chindiferencia/backend/src/services"
	"github.com/username/chindiferencia/backend/src/utils"
)

const (
	formAgentFiles       = "agent_files"
	formCounterpartyText = "counterparty_text"
)

type ReconcileHandler struct {
	service        services.ReconciliationService
	store          *services.SessionStore
	maxUploadBytes int64
}

func NewReconcileHandler(service services.ReconciliationService, store *services.SessionStore, maxUploadBytes int64) *ReconcileHandler {
	return &ReconcileHandler{service: service, store: store, maxUploadBytes: maxUploadBytes}
}

// uploadedFile adapts a multipart upload to services.LedgerFile.
type uploadedFile struct {
	header *multipart.FileHeader
}

func (f uploadedFile) Name() string { return f.header.Filename }

func (f uploadedFile) Open() (io.ReadCloser, error) { return f.header.Open() }

// HandleReconcile runs a reconciliation over the uploaded agent ledgers and the
// pasted counterparty text, stores the result in a new session and returns the
// unfiltered view.
func (h *ReconcileHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	maxBytes := h.maxUploadBytes

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", maxBytes)
		utils.SendJSONError(w, fmt.Sprintf("No se pudo procesar la carga o es demasiado grande (max %d MB)", maxBytes/(1024*1024)), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var files []services.LedgerFile
	for _, fh := range r.MultipartForm.File[formAgentFiles] {
		if err := validation.ValidateFileName(fh.Filename); err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := validation.ValidateClientContentType(fh.Header.Get("Content-Type")); err != nil {
			log.Warn("Invalid client-declared file type", "filename", fh.Filename, "error", err)
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		files = append(files, uploadedFile{header: fh})
	}

	pasted := r.FormValue(formCounterpartyText)
	log.Info("Received reconciliation request", "files", len(files), "pastedBytes", len(pasted))

	result, err := h.service.Run(r.Context(), files, pasted)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoInputProvided):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrReadFailed):
			log.Error("Failed to read uploaded ledger", "error", err)
			utils.SendJSONError(w, "No se pudo leer uno de los archivos", http.StatusBadRequest)
		default:
			log.Error("Reconciliation run failed", "error", err)
			utils.SendJSONError(w, "Error al procesar los datos", http.StatusInternalServerError)
		}
		return
	}

	sess := h.store.CreateSession(result)
	log.Info("Reconciliation stored", "sessionID", sess.ID, "records", len(result.Records), "warnings", len(result.Warnings))
	utils.WriteJSON(w, http.StatusCreated, sess.View(models.DefaultFilters()))
}
