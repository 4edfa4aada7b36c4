package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/hierarchy"
	"github.com/starford/laguz/internal/links"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	hier   *hierarchy.Service
	links  *links.Resolver
	search *search.Service
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil when change
// notifications are disabled.
func NewHandler(hier *hierarchy.Service, res *links.Resolver, srch *search.Service, broker *sse.Broker) *Handler {
	return &Handler{hier: hier, links: res, search: srch, broker: broker}
}

func (h *Handler) notify(item, action, id string) {
	if h.broker != nil {
		h.broker.PublishItemEvent(item, action, id)
	}
}

// writeError maps service errors onto HTTP statuses. Validation problems
// are the client's fault, conflicts are contested state, not-found covers
// explicit lookups; everything else is logged and hidden behind a 500.
func writeError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(what+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// Tree handles GET /api/tree.
//
//	@Summary		Get the folder tree with notes attached
//	@Tags			tree
//	@Produce		json
//	@Param			order_by	query		string	false	"Note sort field"	Enums(title, created_time, updated_time, order, user_created_time, user_updated_time)
//	@Param			direction	query		string	false	"Sort direction"	Enums(asc, desc)
//	@Success		200			{array}		hierarchy.TreeFolder
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tree, err := h.hier.NoteTree(q.Get("order_by"), q.Get("direction"))
	if err != nil {
		writeError(w, "tree", err)
		return
	}
	if tree == nil {
		tree = []*hierarchy.TreeFolder{}
	}
	writeJSON(w, http.StatusOK, tree)
}

// ListNotes handles GET /api/notes. An optional filter parameter narrows
// the list to titles passing the n-gram filter.
//
//	@Summary		List all notes as id/title pairs
//	@Tags			notes
//	@Produce		json
//	@Param			filter	query		string	false	"n-gram title filter"
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	var (
		refs []models.NoteRef
		err  error
	)
	if filter := r.URL.Query().Get("filter"); filter != "" {
		refs, err = h.search.FilterNotes(filter)
	} else {
		refs, err = h.search.AllNotes()
	}
	if err != nil {
		writeError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": refs})
}

// PickNotes handles GET /api/notes/pick. It fuzzy-ranks note titles against
// the query, for incremental note pickers.
//
//	@Summary		Fuzzy-rank notes by title
//	@Tags			notes
//	@Produce		json
//	@Param			q	query		string	false	"Query to rank against"
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/notes/pick [get]
func (h *Handler) PickNotes(w http.ResponseWriter, r *http.Request) {
	refs, err := h.search.PickNotes(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "pick notes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": refs})
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a note in a folder
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateNoteRequest	true	"Note to create"
//	@Success		201		{object}	IDResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := h.hier.CreateNote(req.ParentID, req.Title, req.Body)
	if err != nil {
		writeError(w, "create note", err)
		return
	}
	h.notify("note", "created", id)
	writeJSON(w, http.StatusCreated, IDResponse{ID: id})
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a note by id
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.hier.GetNote(id)
	if err != nil {
		writeError(w, "get note", err)
		return
	}
	if note == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpdateNote handles PATCH /api/notes/{id}.
//
//	@Summary		Partially update a note
//	@Tags			notes
//	@Accept			json
//	@Param			body	body	UpdateNoteRequest	true	"Fields to change"
//	@Success		204		"Updated"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [patch]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.hier.UpdateNote(id, hierarchy.NoteUpdate{Title: req.Title, Body: req.Body, ParentID: req.ParentID})
	if err != nil {
		writeError(w, "update note", err)
		return
	}
	h.notify("note", "updated", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNote handles DELETE /api/notes/{id}.
//
//	@Summary		Delete a note
//	@Tags			notes
//	@Success		204	"Deleted"
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.hier.DeleteNote(id); err != nil {
		writeError(w, "delete note", err)
		return
	}
	h.notify("note", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteNotes handles POST /api/notes/delete.
//
//	@Summary		Delete a batch of notes
//	@Tags			notes
//	@Accept			json
//	@Success		204	"Deleted"
//	@Security		BearerAuth
//	@Router			/notes/delete [post]
func (h *Handler) DeleteNotes(w http.ResponseWriter, r *http.Request) {
	var req DeleteNotesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.hier.DeleteNotes(req.IDs); err != nil {
		writeError(w, "delete notes", err)
		return
	}
	for _, id := range req.IDs {
		h.notify("note", "deleted", id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateNote handles POST /api/notes/{id}/duplicate.
//
//	@Summary		Duplicate a note next to the original
//	@Tags			notes
//	@Produce		json
//	@Success		201	{object}	IDResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/duplicate [post]
func (h *Handler) DuplicateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	newID, err := h.hier.DuplicateNote(id)
	if err != nil {
		writeError(w, "duplicate note", err)
		return
	}
	h.notify("note", "created", newID)
	writeJSON(w, http.StatusCreated, IDResponse{ID: newID})
}

// RenameNoteID handles POST /api/notes/{id}/rename-id.
//
//	@Summary		Rename a note id, rewriting embedded references
//	@Tags			notes
//	@Accept			json
//	@Param			body	body	RenameIDRequest	true	"New id"
//	@Success		204		"Renamed"
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/rename-id [post]
func (h *Handler) RenameNoteID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req RenameIDRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.hier.UpdateNoteID(id, req.NewID); err != nil {
		writeError(w, "rename note id", err)
		return
	}
	h.notify("note", "updated", req.NewID)
	w.WriteHeader(http.StatusNoContent)
}

// SwapNoteOrder handles POST /api/notes/order-swap.
//
//	@Summary		Exchange the manual sort position of two notes
//	@Tags			notes
//	@Accept			json
//	@Success		204	"Swapped"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/order-swap [post]
func (h *Handler) SwapNoteOrder(w http.ResponseWriter, r *http.Request) {
	var req SwapOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.hier.SwapNoteOrder(req.ID1, req.ID2); err != nil {
		writeError(w, "swap note order", err)
		return
	}
	h.notify("note", "updated", req.ID1)
	w.WriteHeader(http.StatusNoContent)
}

// Backlinks handles GET /api/notes/{id}/backlinks.
//
//	@Summary		List notes whose body mentions the given id
//	@Tags			links
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/notes/{id}/backlinks [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	refs, err := h.links.Backlinks(id)
	if err != nil {
		writeError(w, "backlinks", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": refs})
}

// ForwardLinks handles GET /api/notes/{id}/forwardlinks.
//
//	@Summary		List notes referenced from the given note's body
//	@Tags			links
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Security		BearerAuth
//	@Router			/notes/{id}/forwardlinks [get]
func (h *Handler) ForwardLinks(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	refs, err := h.links.ForwardLinks(id)
	if err != nil {
		writeError(w, "forward links", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": refs})
}

// RelativeLabel handles GET /api/notes/{id}/label.
//
//	@Summary		Render a relative display label for a link target
//	@Tags			links
//	@Produce		json
//	@Param			target	query		string	true	"Link target"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/label [get]
func (h *Handler) RelativeLabel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target := r.URL.Query().Get("target")
	if target == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'target' is required"))
		return
	}
	label, err := h.links.RelativeLabel(id, target)
	if err != nil {
		writeError(w, "relative label", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"label": label})
}

// Resolve handles GET /api/resolve/{id}.
//
//	@Summary		Resolve an id to the kind of item it names
//	@Tags			links
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/resolve/{id} [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	kind, err := h.links.Resolve(id)
	if err != nil {
		writeError(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"kind": kind.String()})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across notes
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	true	"Search query"
//	@Success		200	{object}	map[string]any
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.search.SearchNotes(q)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
