package aligner

import (
	"context"

	"github.com/nguyentantai21042004/course-scribe/internal/outline"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Aligner diffs a transcript against a reference outline.
type Aligner interface {
	// Align never fails because the reasoning service failed; it degrades instead.
	// The only error is cancellation of ctx.
	Align(ctx context.Context, segments []transcript.Segment, topics []outline.Topic) (*Report, error)
}
