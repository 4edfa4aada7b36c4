package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/assets"
	"github.com/starford/laguz/internal/hierarchy"
	"github.com/starford/laguz/internal/links"
	"github.com/starford/laguz/internal/search"
	"github.com/starford/laguz/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, is mounted at GET /events inside the auth group and
// receives change notifications from mutating handlers.
func NewRouter(hier *hierarchy.Service, res *links.Resolver, srch *search.Service,
	mgr *assets.Manager, broker *sse.Broker, authEnabled bool, token string) chi.Router {

	h := NewHandler(hier, res, srch, broker)
	rh := NewResourceHandler(mgr)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Tree view.
	r.Get("/tree", h.Tree)

	// Notes CRUD and operations.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/pick", h.PickNotes)
	r.Post("/notes", h.CreateNote)
	r.Post("/notes/delete", h.DeleteNotes)
	r.Post("/notes/order-swap", h.SwapNoteOrder)
	r.Get("/notes/{id}", h.GetNote)
	r.Patch("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Post("/notes/{id}/duplicate", h.DuplicateNote)
	r.Post("/notes/{id}/rename-id", h.RenameNoteID)

	// Link graph.
	r.Get("/notes/{id}/backlinks", h.Backlinks)
	r.Get("/notes/{id}/forwardlinks", h.ForwardLinks)
	r.Get("/notes/{id}/label", h.RelativeLabel)
	r.Get("/resolve/{id}", h.Resolve)

	// Folders.
	r.Post("/folders", h.CreateFolder)
	r.Patch("/folders/{id}", h.UpdateFolder)
	r.Delete("/folders/{id}", h.DeleteFolder)
	r.Post("/folders/{id}/copy", h.CopyFolder)
	r.Get("/folders/{id}/path", h.FolderPath)

	// Search.
	r.Get("/search", h.Search)

	// Attachments.
	r.Post("/resources", rh.Upload)
	r.Get("/resources/{id}", rh.ResourceInfo)
	r.Get("/resources/{id}/file", rh.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if broker != nil {
		r.Get("/events", func(w http.ResponseWriter, req *http.Request) {
			broker.ServeHTTP(w, req)
		})
	}

	return r
}
