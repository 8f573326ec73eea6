package actions

import (
	"context"

	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Extractor derives the action items of one lesson.
type Extractor interface {
	// Extract returns items in order of first mention. Speakers, when given,
	// canonicalise owner names. The only failure is the reasoning call not
	// completing after retries.
	Extract(ctx context.Context, tr *transcript.Transcript, speakers []string) ([]Item, error)
}
