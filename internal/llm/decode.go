package llm

import (
	"bytes"
	"encoding/json"
	"strings"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

// StripFences removes a surrounding ```json ... ``` block if present.
func StripFences(s string) string {
	cleaned := strings.TrimSpace(s)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	lines := strings.Split(cleaned, "\n")
	if len(lines) < 2 {
		return strings.Trim(cleaned, "`")
	}
	lines = lines[1:]
	if last := strings.TrimSpace(lines[len(lines)-1]); strings.HasPrefix(last, "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// DecodeJSON parses a reply into v. Anything that is not a single JSON value
// of the expected shape is reported as a malformed response.
func DecodeJSON(reply string, v any) error {
	body := StripFences(reply)
	if body == "" {
		return apperrors.Malformed("empty reply")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return apperrors.Malformed("decode reply: %v", err)
	}
	if dec.More() {
		return apperrors.Malformed("trailing data after JSON reply")
	}
	return nil
}
