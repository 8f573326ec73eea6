package batch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/course-scribe/internal/actions"
)

// File is one loaded lesson file.
type File struct {
	Path  string
	Items []actions.Item
}

// MergedItem is one distinct task across the week.
type MergedItem struct {
	Text     string           `json:"text"`
	Owners   []string         `json:"owners"`
	Due      string           `json:"due,omitempty"`
	Priority actions.Priority `json:"priority,omitempty"`
	Sources  []string         `json:"sources"`
	Note     string           `json:"note,omitempty"`
}

// Load reads every path in order and stops at the first invalid file.
func Load(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, path := range paths {
		items, err := actions.ReadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, File{Path: path, Items: items})
	}
	return files, nil
}

type mergeState struct {
	item MergedItem
	dues []string
}

// Merge deduplicates items by actions.Key. Owned items come first, then
// unowned; within each group items keep first-seen order.
func Merge(files []File) []MergedItem {
	var order []string
	states := make(map[string]*mergeState)

	for _, f := range files {
		fallback := filepath.Base(f.Path)
		for _, it := range f.Items {
			key := actions.Key(it.Text)
			st, ok := states[key]
			if !ok {
				st = &mergeState{item: MergedItem{
					Text:    actions.Normalize(it.Text),
					Owners:  []string{},
					Sources: []string{},
				}}
				states[key] = st
				order = append(order, key)
			}

			if it.Owner != "" {
				st.item.Owners = unionFold(st.item.Owners, it.Owner)
			}

			source := it.SourceFile
			if source == "" {
				source = fallback
			}
			st.item.Sources = union(st.item.Sources, source)

			if it.Due != "" {
				st.dues = unionFold(st.dues, it.Due)
			}

			if it.Priority != "" && (st.item.Priority == "" || it.Priority.Rank() > st.item.Priority.Rank()) {
				st.item.Priority = it.Priority
			}
		}
	}

	owned := make([]MergedItem, 0, len(order))
	var unowned []MergedItem
	for _, key := range order {
		st := states[key]
		if len(st.dues) > 0 {
			st.item.Due = st.dues[0]
		}
		if len(st.dues) > 1 {
			st.item.Note = fmt.Sprintf("due dates diverged: %s", strings.Join(st.dues, ", "))
		}
		if len(st.item.Owners) > 0 {
			owned = append(owned, st.item)
		} else {
			unowned = append(unowned, st.item)
		}
	}
	return append(owned, unowned...)
}

func union(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func unionFold(list []string, v string) []string {
	for _, existing := range list {
		if actions.EqualFold(existing, v) {
			return list
		}
	}
	return append(list, v)
}
