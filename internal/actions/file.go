package actions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// FileSuffix names every per-lesson action-item file.
const FileSuffix = "_actions.json"

// FileName returns the action-item file name for a media file: <stem>_actions.json.
func FileName(mediaPath string) string {
	base := filepath.Base(mediaPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + FileSuffix
}

// Marshal renders items as an indented JSON array; nil renders as [].
// An item without text is a ValueError.
func Marshal(items []Item) ([]byte, error) {
	for i, it := range items {
		if Normalize(it.Text) == "" {
			return nil, apperrors.Valuef("write actions", "item %d has no text", i)
		}
	}
	if items == nil {
		items = []Item{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, apperrors.Valuef("write actions", "marshal items: %v", err)
	}
	return append(data, '\n'), nil
}

// WriteFile writes the lesson's items into dir and returns the path. The file
// is renamed into place only once fully written.
func WriteFile(dir, mediaPath string, items []Item) (string, error) {
	data, err := Marshal(items)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	name := FileName(mediaPath)
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return "", fmt.Errorf("rename into %s: %w", path, err)
	}
	return path, nil
}

// wire shape of a stored item; pointer text tells absent from empty
type storedItem struct {
	Text            *string            `json:"text"`
	Owner           string             `json:"owner"`
	Due             string             `json:"due"`
	Priority        string             `json:"priority"`
	SourceTimestamp *transcript.Offset `json:"source_timestamp"`
	SourceFile      string             `json:"source_file"`
}

// ReadFile loads and validates a per-lesson action-item file. Anything other
// than a JSON array of items with text is an InputError naming the path.
func ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Inputf("read actions", path, "file does not exist")
		}
		return nil, apperrors.Input("read actions", path, err)
	}
	return Parse(path, data)
}

// Parse validates raw file content; path is used only for error messages.
func Parse(path string, data []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperrors.Inputf("read actions", path, "not a JSON array")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, apperrors.Input("read actions", path, fmt.Errorf("invalid JSON: %w", err))
	}

	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		var s storedItem
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, apperrors.Inputf("read actions", path, "item %d: %v", i, err)
		}
		if s.Text == nil || Normalize(*s.Text) == "" {
			return nil, apperrors.Inputf("read actions", path, "item %d has no text", i)
		}

		item := Item{
			Text:            Normalize(*s.Text),
			Owner:           Normalize(s.Owner),
			Due:             Normalize(s.Due),
			SourceTimestamp: s.SourceTimestamp,
			SourceFile:      strings.TrimSpace(s.SourceFile),
		}
		if strings.TrimSpace(s.Priority) != "" {
			item.Priority = ParsePriority(s.Priority)
		}
		items = append(items, item)
	}
	return items, nil
}
