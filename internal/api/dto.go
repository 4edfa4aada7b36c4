package api

// CreateNoteRequest is the body for POST /notes.
type CreateNoteRequest struct {
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// UpdateNoteRequest is the body for PATCH /notes/{id}. Absent fields are
// left untouched.
type UpdateNoteRequest struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	ParentID *string `json:"parent_id"`
}

// CreateFolderRequest is the body for POST /folders.
type CreateFolderRequest struct {
	Title    string `json:"title"`
	ParentID string `json:"parent_id"`
}

// UpdateFolderRequest is the body for PATCH /folders/{id}.
type UpdateFolderRequest struct {
	Title    *string `json:"title"`
	ParentID *string `json:"parent_id"`
}

// CopyFolderRequest is the body for POST /folders/{id}/copy. An empty
// parent keeps the copy next to the original.
type CopyFolderRequest struct {
	ParentID string `json:"parent_id"`
}

// RenameIDRequest is the body for POST /notes/{id}/rename-id.
type RenameIDRequest struct {
	NewID string `json:"new_id"`
}

// SwapOrderRequest is the body for POST /notes/order-swap.
type SwapOrderRequest struct {
	ID1 string `json:"id1"`
	ID2 string `json:"id2"`
}

// DeleteNotesRequest is the body for POST /notes/delete.
type DeleteNotesRequest struct {
	IDs []string `json:"ids"`
}

// IDResponse wraps a single created or derived item id.
type IDResponse struct {
	ID string `json:"id"`
}
