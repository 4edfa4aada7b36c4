// Package models defines the domain types for Laguz.
//
// Column sets mirror the subset of the upstream note-app schema that the
// core reads and writes; timestamps are Unix milliseconds for store
// compatibility.
package models

// Kind identifies which table an opaque id resolves to.
type Kind int

const (
	KindNone Kind = iota
	KindNote
	KindFolder
	KindResource
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNote:
		return "note"
	case KindFolder:
		return "folder"
	case KindResource:
		return "resource"
	default:
		return "none"
	}
}

// Note is a markdown document owned by exactly one folder.
//
// The todo/geolocation fields are carried for schema compatibility and never
// interpreted by the core.
type Note struct {
	ID              string  `json:"id"`
	ParentID        string  `json:"parent_id"`
	Title           string  `json:"title"`
	Body            string  `json:"body"`
	CreatedTime     int64   `json:"created_time"`
	UpdatedTime     int64   `json:"updated_time"`
	UserCreatedTime int64   `json:"user_created_time"`
	UserUpdatedTime int64   `json:"user_updated_time"`
	IsTodo          int64   `json:"is_todo"`
	TodoDue         int64   `json:"todo_due"`
	TodoCompleted   int64   `json:"todo_completed"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Altitude        float64 `json:"altitude"`
	Order           float64 `json:"order"`
}

// Folder is a hierarchical container for notes and other folders.
// ParentID == "" means the folder sits at the root.
type Folder struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ParentID        string `json:"parent_id"`
	CreatedTime     int64  `json:"created_time"`
	UpdatedTime     int64  `json:"updated_time"`
	UserCreatedTime int64  `json:"user_created_time"`
	UserUpdatedTime int64  `json:"user_updated_time"`
}

// Resource is an uploaded binary asset stored under {asset_dir}/{id}.{ext}.
type Resource struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Mime          string `json:"mime"`
	Filename      string `json:"filename"`
	FileExtension string `json:"file_extension"`
	Size          int64  `json:"size"`
	CreatedTime   int64  `json:"created_time"`
	UpdatedTime   int64  `json:"updated_time"`
}

// NoteResource associates a resource with a note. IsAssociated is written
// for compatibility with pre-existing stores and never interpreted here.
type NoteResource struct {
	NoteID       string `json:"note_id"`
	ResourceID   string `json:"resource_id"`
	IsAssociated bool   `json:"is_associated"`
	LastSeenTime int64  `json:"last_seen_time"`
}

// NoteRef is the lightweight {id,title} pair returned by list, search, and
// link queries.
type NoteRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
