// Package actions extracts, normalises and persists the per-lesson action items.
package actions

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Priority ranks an action item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Rank orders priorities so the most urgent compares highest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityLow:
		return 0
	default:
		return 1
	}
}

// ParsePriority maps free text onto a known priority; anything unknown is normal.
func ParsePriority(s string) Priority {
	switch Key(s) {
	case "high", "urgent", "critical":
		return PriorityHigh
	case "low", "minor":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// Item is one task from one lesson.
type Item struct {
	Text            string             `json:"text"`
	Owner           string             `json:"owner,omitempty"`
	Due             string             `json:"due,omitempty"`
	Priority        Priority           `json:"priority,omitempty"`
	SourceTimestamp *transcript.Offset `json:"source_timestamp,omitempty"`
	SourceFile      string             `json:"source_file"`
}

// Normalize trims and collapses internal whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Key is the deduplication key: normalised and case folded.
func Key(text string) string {
	return cases.Fold().String(Normalize(text))
}

// EqualFold compares two names the way Key does.
func EqualFold(a, b string) bool {
	return Key(a) == Key(b)
}
