package assets

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/nid"
)

// EventCallback receives asset directory changes. kind is "created" or
// "deleted"; id is the asset id derived from the file name.
type EventCallback func(kind, id string)

// Reconcile walks the asset directory once and brings the resources table
// in line with it. Conforming files ("{id}.{ext}" with a valid id) that
// have no row get one synthesized; rows whose file is gone are kept and
// logged, since the bytes may come back.
func (m *Manager) Reconcile() error {
	known, err := m.st.AllResourceIDs()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("assets: reconcile: %w", err)
	}
	onDisk := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		id, ok := assetID(e.Name())
		if !ok {
			m.log.Warn("skipping non-conforming asset file", slog.String("name", e.Name()))
			continue
		}
		onDisk[id] = struct{}{}
		if _, seen := known[id]; !seen {
			if err := m.synthesizeRow(e.Name(), id); err != nil {
				m.log.Warn("reconcile: row synthesis failed", slog.String("id", id), slog.Any("error", err))
			}
		}
	}

	for id := range known {
		if _, ok := onDisk[id]; !ok {
			m.log.Info("resource file missing from asset dir", slog.String("id", id))
		}
	}
	return nil
}

// Watch follows the asset directory with fsnotify until ctx is canceled.
// New conforming files get a resource row synthesized and cb("created");
// removals emit cb("deleted") but keep the row, matching Reconcile.
func (m *Manager) Watch(ctx context.Context, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("assets: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(m.dir); err != nil {
		return fmt.Errorf("assets: watch %s: %w", m.dir, err)
	}
	m.log.Info("watching asset directory", slog.String("dir", m.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			m.handleEvent(ev, cb)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.log.Warn("asset watcher error", slog.Any("error", err))
		}
	}
}

func (m *Manager) handleEvent(ev fsnotify.Event, cb EventCallback) {
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return
	}
	id, ok := assetID(name)
	if !ok {
		return
	}
	switch {
	case ev.Op.Has(fsnotify.Create):
		exists, err := m.st.ResourceExists(id)
		if err != nil {
			m.log.Warn("asset event lookup failed", slog.String("id", id), slog.Any("error", err))
			return
		}
		if !exists {
			if err := m.synthesizeRow(name, id); err != nil {
				m.log.Warn("asset row synthesis failed", slog.String("id", id), slog.Any("error", err))
				return
			}
		}
		if cb != nil {
			cb("created", id)
		}
	case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
		if cb != nil {
			cb("deleted", id)
		}
	}
}

// synthesizeRow records a resource row for a file that appeared in the
// asset directory without going through Upload.
func (m *Manager) synthesizeRow(name, id string) error {
	path := filepath.Join(m.dir, name)
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	ext := strings.ToLower(filepath.Ext(name))
	now := time.Now().UnixMilli()
	return m.st.InsertResource(&models.Resource{
		ID:            id,
		Title:         name,
		Mime:          mime.TypeByExtension(ext),
		Filename:      name,
		FileExtension: strings.TrimPrefix(ext, "."),
		Size:          size,
		CreatedTime:   now,
		UpdatedTime:   now,
	})
}

// assetID extracts the id from a "{id}.{ext}" or "{id}" file name and
// reports whether it is a well-formed item id.
func assetID(name string) (string, bool) {
	id := strings.TrimSuffix(name, filepath.Ext(name))
	return id, nid.Valid(id)
}
