package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/laguz/internal/assets"
)

const maxUploadBytes = 50 << 20 // 50 MB

// ResourceHandler accepts and serves binary attachments.
type ResourceHandler struct {
	mgr *assets.Manager
}

// NewResourceHandler creates a handler over the asset manager.
func NewResourceHandler(mgr *assets.Manager) *ResourceHandler {
	return &ResourceHandler{mgr: mgr}
}

// Upload handles POST /api/resources (multipart/form-data, field "file",
// optional "note_id" and "title" fields).
//
//	@Summary		Upload an attachment, optionally linking it to a note
//	@Tags			resources
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		201	{object}	assets.UploadResult
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resources [post]
func (h *ResourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	noteID := r.FormValue("note_id")
	title := r.FormValue("title")

	result, err := h.mgr.UploadStream(file, header.Filename, noteID, title)
	if err != nil {
		writeError(w, "upload resource", err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// ServeFile handles GET /api/resources/{id}/file.
//
//	@Summary		Download an attachment's bytes
//	@Tags			resources
//	@Success		200	"File content"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resources/{id}/file [get]
func (h *ResourceHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path, err := h.mgr.ResourcePath(id)
	if err != nil {
		writeError(w, "serve resource", err)
		return
	}
	if path == "" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	http.ServeFile(w, r, path)
}

// ResourceInfo handles GET /api/resources/{id}.
//
//	@Summary		Get an attachment's MIME type and display bucket
//	@Tags			resources
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resources/{id} [get]
func (h *ResourceHandler) ResourceInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path, err := h.mgr.ResourcePath(id)
	if err != nil {
		writeError(w, "resource info", err)
		return
	}
	if path == "" {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	mt, bucket, err := h.mgr.ResourceMime(id)
	if err != nil {
		writeError(w, "resource info", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"mime": mt,
		"type": bucket.String(),
	})
}
