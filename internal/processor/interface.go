package processor

import (
	"context"

	"github.com/nguyentantai21042004/course-scribe/internal/actions"
	"github.com/nguyentantai21042004/course-scribe/internal/aligner"
	"github.com/nguyentantai21042004/course-scribe/internal/render"
	"github.com/nguyentantai21042004/course-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Processor runs the per-lesson pipelines.
type Processor interface {
	// Transcribe writes one transcript file, optionally with a summary.
	Transcribe(ctx context.Context, mediaPath string, opts TranscribeOptions) (*TranscribeResult, error)
	// Course writes <stem>_diff.md, <stem>_diff.json and <stem>_actions.json for one lesson.
	Course(ctx context.Context, mediaPath, notesPath string, opts CourseOptions) (*CourseResult, error)
	// Process picks Course when the media has sibling notes, Transcribe otherwise.
	Process(ctx context.Context, mediaPath string) error
}

type TranscribeOptions struct {
	Format    render.Format
	OutputDir string
	NoTimes   bool
	NoSummary bool
	Diarize   bool
	Speakers  []string
	Model     string
	Language  string
}

type TranscribeResult struct {
	Transcript *transcript.Transcript
	Summary    *summarizer.Summary
	OutputPath string
}

type CourseOptions struct {
	Week      int
	OutputDir string
	Speakers  []string
	Diarize   bool
	Model     string
	Language  string
}

type CourseResult struct {
	Report       *aligner.Report
	Items        []actions.Item
	DiffPath     string
	DiffJSONPath string
	ActionsPath  string
}
