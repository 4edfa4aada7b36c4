package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/laguz/internal/hierarchy"
)

// CreateFolder handles POST /api/folders.
//
//	@Summary		Create a folder
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateFolderRequest	true	"Folder to create"
//	@Success		201		{object}	IDResponse
//	@Security		BearerAuth
//	@Router			/folders [post]
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.hier.CreateFolder(req.Title, req.ParentID)
	if err != nil {
		writeError(w, "create folder", err)
		return
	}
	h.notify("folder", "created", id)
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// UpdateFolder handles PATCH /api/folders/{id}.
//
//	@Summary		Partially update a folder
//	@Tags			folders
//	@Accept			json
//	@Success		204	"Updated"
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [patch]
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.hier.UpdateFolder(id, hierarchy.FolderUpdate{Title: req.Title, ParentID: req.ParentID})
	if err != nil {
		writeError(w, "update folder", err)
		return
	}
	h.notify("folder", "updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFolder handles DELETE /api/folders/{id}.
//
//	@Summary		Recursively delete a folder, its subfolders, and their notes
//	@Tags			folders
//	@Success		204	"Deleted"
//	@Security		BearerAuth
//	@Router			/folders/{id} [delete]
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.hier.DeleteFolderRecursive(id); err != nil {
		writeError(w, "delete folder", err)
		return
	}
	h.notify("folder", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// CopyFolder handles POST /api/folders/{id}/copy.
//
//	@Summary		Deep-copy a folder subtree
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	IDResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id}/copy [post]
func (h *Handler) CopyFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CopyFolderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	newID, err := h.hier.CopyFolderRecursive(id, req.ParentID)
	if err != nil {
		writeError(w, "copy folder", err)
		return
	}
	h.notify("folder", "created", newID)
	writeJSON(w, http.StatusCreated, IDResponse{ID: newID})
}

// FolderPath handles GET /api/folders/{id}/path.
//
//	@Summary		Get the root-to-folder title path
//	@Tags			folders
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id}/path [get]
func (h *Handler) FolderPath(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, err := h.hier.GetFolder(id)
	if err != nil {
		writeError(w, "folder path", err)
		return
	}
	if f == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	path, err := h.links.FolderPath(id)
	if err != nil {
		writeError(w, "folder path", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}
