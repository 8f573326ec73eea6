// Package outline loads a reference lesson plan into ordered topic statements.
// Leading list bullets, numbering, checkboxes and heading marks are stripped
// from each line; a line that is only a marker is kept as written.
package outline

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

// Topic is one non-blank line of the reference notes, in file order.
type Topic struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// list bullets, numbering and heading marks that prefix a statement
var reMarker = regexp.MustCompile(`^(?:#{1,6}\s+|[-*+•]\s+|\d+[.)]\s+|\[[ xX]\]\s+)+`)

// Load reads path as UTF-8 text and returns its topics. A file with no
// non-blank lines yields an empty outline, not an error.
func Load(path string) ([]Topic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Inputf("load outline", path, "file does not exist")
		}
		return nil, apperrors.Input("load outline", path, err)
	}
	return Parse(path, raw)
}

// Parse splits raw UTF-8 text into topics. path is only used in errors.
func Parse(path string, raw []byte) ([]Topic, error) {
	text, err := decode(raw)
	if err != nil {
		return nil, apperrors.Input("load outline", path, err)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	topics := []Topic{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if stripped := strings.TrimSpace(reMarker.ReplaceAllString(line, "")); stripped != "" {
			line = stripped
		}
		topics = append(topics, Topic{Index: len(topics), Text: line})
	}
	return topics, nil
}

// decode strips a UTF-8 byte-order mark and rejects anything that is not UTF-8.
func decode(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return "", errors.New("file contains NUL bytes; expected plain text")
	}
	r := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	out, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
