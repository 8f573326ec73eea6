package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Options selects the speech model for one call.
type Options struct {
	Model    string
	Language string
	Diarize  bool
}

// Transcriber turns an audio file into time-coded, speaker-labelled segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*transcript.Transcript, error)
}
