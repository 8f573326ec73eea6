package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Summarizer produces an LLM-generated structured summary of a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, tr *transcript.Transcript) (*Summary, error)
}

// Summary is the structured digest of one transcript.
type Summary struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
}
