// Package assets manages binary attachments: files stored on disk under a
// single flat directory as "{id}{ext}" and mirrored as resource rows in the
// store. A background watcher keeps the two views reconciled.
package assets

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
	"github.com/starford/laguz/internal/store"
)

// Type buckets a resource's MIME type for display purposes.
type Type int

const (
	TypeOther Type = iota
	TypeImage
	TypeVideo
	TypeAudio
	TypePDF
	TypeDocument
	TypeArchive
	TypeCode
	TypeHTML
)

func (t Type) String() string {
	switch t {
	case TypeImage:
		return "image"
	case TypeVideo:
		return "video"
	case TypeAudio:
		return "audio"
	case TypePDF:
		return "pdf"
	case TypeDocument:
		return "document"
	case TypeArchive:
		return "archive"
	case TypeCode:
		return "code"
	case TypeHTML:
		return "html"
	default:
		return "other"
	}
}

var archiveExts = map[string]struct{}{
	".zip": {}, ".tar": {}, ".gz": {}, ".tgz": {}, ".7z": {}, ".rar": {}, ".bz2": {},
}

var codeExts = map[string]struct{}{
	".go": {}, ".py": {}, ".js": {}, ".ts": {}, ".c": {}, ".h": {}, ".cpp": {},
	".rs": {}, ".java": {}, ".rb": {}, ".sh": {}, ".sql": {}, ".json": {},
	".yaml": {}, ".yml": {}, ".toml": {}, ".css": {},
}

var documentExts = map[string]struct{}{
	".md": {}, ".txt": {}, ".rtf": {}, ".doc": {}, ".docx": {}, ".odt": {},
	".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
}

// Classify buckets a MIME type plus file extension into a display Type.
// HTML is split out before the generic text bucket, and well-known archive
// and code extensions beat the document fallback.
func Classify(mimeType, ext string) Type {
	mimeType = strings.ToLower(mimeType)
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return TypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return TypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return TypeAudio
	case mimeType == "application/pdf" || ext == ".pdf":
		return TypePDF
	case strings.Contains(mimeType, "html") || ext == ".html" || ext == ".htm":
		return TypeHTML
	}
	if _, ok := archiveExts[ext]; ok {
		return TypeArchive
	}
	if _, ok := codeExts[ext]; ok {
		return TypeCode
	}
	if _, ok := documentExts[ext]; ok {
		return TypeDocument
	}
	if strings.HasPrefix(mimeType, "text/") {
		return TypeDocument
	}
	return TypeOther
}

// Manager owns the asset directory and the resource rows that describe it.
type Manager struct {
	dir string
	st  *store.Store
	log *slog.Logger
}

// NewManager creates the asset directory if needed and returns a manager
// over it.
func NewManager(dir string, st *store.Store, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: create dir: %w", err)
	}
	return &Manager{dir: dir, st: st, log: log}, nil
}

// Dir returns the managed asset directory.
func (m *Manager) Dir() string {
	return m.dir
}

// UploadResult reports which parts of an upload took effect. The file copy
// is the point of no return: once the bytes are in place the upload
// succeeds, and row or association failures only degrade the result.
type UploadResult struct {
	ResourceID string `json:"resource_id"`
	Associated bool   `json:"associated"`
}

// Upload copies the file at srcPath into the asset directory under a fresh
// id, records a resource row, and associates it with noteID when given. An
// empty title defaults to the source file name.
func (m *Manager) Upload(srcPath, noteID, title string) (UploadResult, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return UploadResult{}, fmt.Errorf("assets: open source: %w", err)
	}
	defer src.Close()
	return m.UploadStream(src, filepath.Base(srcPath), noteID, title)
}

// UploadStream stores the bytes from src as a new asset named after a fresh
// id plus filename's extension. See Upload for the failure semantics.
func (m *Manager) UploadStream(src io.Reader, filename, noteID, title string) (UploadResult, error) {
	id := nid.New()
	ext := strings.ToLower(filepath.Ext(filename))
	size, err := m.copyAtomic(src, id+ext)
	if err != nil {
		return UploadResult{}, err
	}

	if title == "" {
		title = filename
	}
	now := time.Now().UnixMilli()
	res := &models.Resource{
		ID:            id,
		Title:         title,
		Mime:          mime.TypeByExtension(ext),
		Filename:      filename,
		FileExtension: strings.TrimPrefix(ext, "."),
		Size:          size,
		CreatedTime:   now,
		UpdatedTime:   now,
	}
	result := UploadResult{ResourceID: id}
	if err := m.st.InsertResource(res); err != nil {
		m.log.Warn("asset stored but row insert failed", slog.String("id", id), slog.Any("error", err))
		return result, nil
	}
	if noteID != "" {
		if err := m.st.AssociateNoteResource(noteID, id); err != nil {
			m.log.Warn("asset association failed", slog.String("id", id), slog.String("note", noteID), slog.Any("error", err))
			return result, nil
		}
		result.Associated = true
	}
	return result, nil
}

// copyAtomic writes src to a temp file in the asset directory and renames
// it into place, so readers never see a half-written asset. Returns the
// number of bytes written.
func (m *Manager) copyAtomic(src io.Reader, name string) (int64, error) {
	tmp, err := os.CreateTemp(m.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("assets: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, src)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("assets: copy: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("assets: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(m.dir, name)); err != nil {
		return 0, fmt.Errorf("assets: rename: %w", err)
	}
	return size, nil
}

// ResourcePath returns the on-disk path of the asset with the given id.
// The first filename starting with the id wins; fixed-length ids keep the
// prefix scan unambiguous even for names with multi-part extensions.
// Empty when no file matches.
func (m *Manager) ResourcePath(id string) (string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return "", fmt.Errorf("assets: read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), id) {
			return filepath.Join(m.dir, e.Name()), nil
		}
	}
	return "", nil
}

// ResourceMime returns the MIME type and display bucket for the asset with
// the given id, derived from its on-disk extension.
func (m *Manager) ResourceMime(id string) (string, Type, error) {
	path, err := m.ResourcePath(id)
	if err != nil {
		return "", TypeOther, err
	}
	if path == "" {
		return "", TypeOther, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	mt := mime.TypeByExtension(ext)
	return mt, Classify(mt, ext), nil
}
