package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
)

// TreeFolder is a folder node in the materialized tree, with its child
// folders and its directly contained notes.
type TreeFolder struct {
	models.Folder
	Children []*TreeFolder `json:"children"`
	Notes    []models.Note `json:"notes"`
}

// Sort fields accepted by NoteTree.
var noteOrderFields = map[string]struct{}{
	"title":             {},
	"created_time":      {},
	"updated_time":      {},
	"order":             {},
	"user_created_time": {},
	"user_updated_time": {},
}

// NoteTree materializes the full folder tree with notes attached. Folders
// whose parent does not exist are promoted to roots so no content silently
// disappears from the view. Folders sort by title case-insensitively; notes
// sort by the requested field and direction with a deterministic tie-break
// chain (title asc, updated desc, created desc).
func (s *Service) NoteTree(orderBy, direction string) ([]*TreeFolder, error) {
	if orderBy == "" {
		orderBy = "order"
	}
	if direction == "" {
		direction = "asc"
	}
	if _, ok := noteOrderFields[orderBy]; !ok {
		return nil, fmt.Errorf("hierarchy: unknown sort field %q: %w", orderBy, apperr.ErrValidation)
	}
	if direction != "asc" && direction != "desc" {
		return nil, fmt.Errorf("hierarchy: unknown sort direction %q: %w", direction, apperr.ErrValidation)
	}

	folders, err := s.st.AllFolders()
	if err != nil {
		return nil, err
	}
	notes, err := s.st.AllNotes()
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*TreeFolder, len(folders))
	for i := range folders {
		nodes[folders[i].ID] = &TreeFolder{Folder: folders[i]}
	}

	var roots []*TreeFolder
	for _, node := range nodes {
		parent, ok := nodes[node.ParentID]
		if node.ParentID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	for i := range notes {
		if parent, ok := nodes[notes[i].ParentID]; ok {
			parent.Notes = append(parent.Notes, notes[i])
		}
	}

	less := noteLess(orderBy, direction == "desc")
	var sortNode func(node *TreeFolder)
	sortNode = func(node *TreeFolder) {
		sort.SliceStable(node.Children, func(i, j int) bool {
			return lessFold(node.Children[i].Title, node.Children[j].Title)
		})
		sort.SliceStable(node.Notes, func(i, j int) bool {
			return less(&node.Notes[i], &node.Notes[j])
		})
		for _, child := range node.Children {
			sortNode(child)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return lessFold(roots[i].Title, roots[j].Title)
	})
	for _, root := range roots {
		sortNode(root)
	}
	return roots, nil
}

func lessFold(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// noteLess builds the note comparator: primary field with direction, then
// title asc, updated_time desc, created_time desc to keep output stable.
func noteLess(field string, desc bool) func(a, b *models.Note) bool {
	primary := func(a, b *models.Note) int {
		switch field {
		case "title":
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case "created_time":
			return compareInt64(a.CreatedTime, b.CreatedTime)
		case "updated_time":
			return compareInt64(a.UpdatedTime, b.UpdatedTime)
		case "user_created_time":
			return compareInt64(a.UserCreatedTime, b.UserCreatedTime)
		case "user_updated_time":
			return compareInt64(a.UserUpdatedTime, b.UserUpdatedTime)
		default: // order
			switch {
			case a.Order < b.Order:
				return -1
			case a.Order > b.Order:
				return 1
			}
			return 0
		}
	}
	return func(a, b *models.Note) bool {
		if c := primary(a, b); c != 0 {
			if desc {
				return c > 0
			}
			return c < 0
		}
		if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c < 0
		}
		if c := compareInt64(a.UpdatedTime, b.UpdatedTime); c != 0 {
			return c > 0
		}
		return compareInt64(a.CreatedTime, b.CreatedTime) > 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
