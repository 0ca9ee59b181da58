package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/frahmantamala/onboarding-tracker/internal"
	"github.com/frahmantamala/onboarding-tracker/internal/transport"
	"github.com/frahmantamala/onboarding-tracker/pkg/logger"
)

// multipartMemory is how much of a multipart body is buffered before spilling to disk.
const multipartMemory = 8 << 20

type ServiceAPI interface {
	UploadFile(ctx context.Context, userID int64, docType, fileName string, r io.Reader) (*Document, error)
	Review(ctx context.Context, docID, reviewerID int64, dto ReviewDTO) (*Decision, error)
	Get(ctx context.Context, docID int64, requester *internal.Identity) (*Document, error)
	OpenFile(ctx context.Context, docID int64, requester *internal.Identity) (*Document, io.ReadCloser, error)
	ListMine(ctx context.Context, userID int64) ([]*Document, error)
	ListPending(ctx context.Context) ([]*PendingDocument, error)
}

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	maxUploadSize int64
}

func NewHandler(service ServiceAPI, maxUploadSize int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// Upload handles POST /documents as multipart/form-data with docType and file.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	if h.maxUploadSize > 0 {
		// room for the form fields around the file part
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleServiceError(w, internal.NewValidationError("file exceeds the upload size limit", internal.ErrCodeValidationFailed))
			return
		}
		h.Logger.Warn("Upload: invalid multipart body", "error", err, "user_id", identity.UserID)
		h.HandleServiceError(w, internal.ErrMissingFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	docType := r.FormValue("docType")
	if err := ValidateDocType(docType); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, internal.ErrMissingFile)
		return
	}
	defer file.Close()

	doc, err := h.Service.UploadFile(r.Context(), identity.UserID, docType, filepath.Base(header.Filename), file)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, UploadResponse{ID: doc.ID, FileRef: doc.FileRef})
}

// Review handles PATCH /documents/{id}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	docID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	var dto ReviewDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	decision, err := h.Service.Review(r.Context(), docID, identity.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, decision.Document)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	docID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.Service.Get(r.Context(), docID, identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, doc)
}

// Download handles GET /documents/{id}/file
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	docID, ok := h.PathID(w, r, "id")
	if !ok {
		return
	}

	doc, rc, err := h.Service.OpenFile(r.Context(), docID, identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileRef+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		h.Logger.Error("Download: failed to stream file", "error", err, "document_id", docID)
	}
}

// ListMine handles GET /me/documents
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.RequireIdentity(w, r)
	if !ok {
		return
	}

	docs, err := h.Service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

// ListPending handles GET /documents/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Service.ListPending(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}
