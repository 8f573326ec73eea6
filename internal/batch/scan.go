// Package batch merges the per-lesson action-item files of one week into a
// single deduplicated digest. It only ever reads the lesson files.
package batch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/course-scribe/internal/actions"
	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

// DigestName is the digest file name without a week filter.
const DigestName = "weekly_todo.md"

var weekPattern = regexp.MustCompile(`(?i)(?:^|[^a-z])(?:week|wk)[-_ ]?0*(\d+)`)

// WeekOf returns the week encoded in a file name, e.g. "lesson_week03_actions.json" is week 3.
func WeekOf(name string) (int, bool) {
	m := weekPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, false
	}
	week, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return week, true
}

// Scan lists the action-item files in dir, sorted by name. A week above zero
// keeps only files marked with that week; unmarked files are then excluded.
func Scan(dir string, week int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Inputf("scan", dir, "directory does not exist")
		}
		return nil, apperrors.Input("scan", dir, err)
	}

	paths := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, actions.FileSuffix) {
			continue
		}
		if week > 0 {
			if w, ok := WeekOf(name); !ok || w != week {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// DigestPath resolves where the digest goes. An empty output puts it in dir.
// An output naming a directory puts it inside that directory; the directory
// need not exist yet when output ends in a separator or has no extension.
func DigestPath(dir, output string, week int) string {
	name := DigestName
	if week > 0 {
		name = "weekly_todo_week" + strconv.Itoa(week) + ".md"
	}
	if output == "" {
		return filepath.Join(dir, name)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(os.PathSeparator)) || filepath.Ext(output) == "" {
		return filepath.Join(output, name)
	}
	return output
}
