package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/course-scribe/internal/actions"
	"github.com/nguyentantai21042004/course-scribe/internal/batch"
	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/media"
	"github.com/nguyentantai21042004/course-scribe/internal/outline"
	"github.com/nguyentantai21042004/course-scribe/internal/render"
	"github.com/nguyentantai21042004/course-scribe/internal/transcriber"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Transcribe runs media -> transcript (-> summary) -> one output file.
func (p *implProcessor) Transcribe(ctx context.Context, mediaPath string, opts TranscribeOptions) (*TranscribeResult, error) {
	if opts.NoTimes && opts.Format == render.FormatJSON {
		return nil, apperrors.Config("transcribe", "--no-times cannot be combined with json output")
	}
	if opts.Format == "" {
		opts.Format = render.FormatMarkdown
	}
	outDir := p.outputDir(opts.OutputDir)

	startTime := time.Now()
	p.logger.Info(ctx, "Starting transcription: %s", mediaPath)

	tr, err := p.transcribe(ctx, mediaPath, transcriber.Options{
		Model:    p.pick(opts.Model, p.cfg.Speech.Model),
		Language: p.pick(opts.Language, p.cfg.Speech.Language),
		Diarize:  opts.Diarize,
	}, opts.Speakers)
	if err != nil {
		return nil, err
	}

	result := &TranscribeResult{Transcript: tr}
	if !opts.NoSummary && p.summarizer != nil {
		summary, err := p.summarizer.Summarize(ctx, tr)
		if err != nil {
			p.logger.Warn(ctx, "Summary failed, writing transcript without it: %v", err)
		} else {
			result.Summary = summary
		}
	}

	renderOpts := render.TranscriptOptions{NoTimes: opts.NoTimes, Summary: result.Summary}
	outPath := filepath.Join(outDir, media.Stem(mediaPath)+opts.Format.Ext())

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if opts.Format == render.FormatDocx {
		if err := render.TranscriptDocx(outPath, tr, renderOpts); err != nil {
			return nil, fmt.Errorf("write %s: %w", outPath, err)
		}
	} else {
		data, err := render.Transcript(tr, opts.Format, renderOpts)
		if err != nil {
			return nil, err
		}
		if err := writeOutput(outPath, data); err != nil {
			return nil, err
		}
	}
	result.OutputPath = outPath

	p.logger.Info(ctx, "Transcript written: %s (%s)", outPath, time.Since(startTime).Round(time.Millisecond))
	return result, nil
}

// Course runs the diff and action-item pipeline for one lesson. The outline is
// read before any service call so a bad notes path fails fast. The diff is
// written before extraction; a failed extraction leaves no actions file.
func (p *implProcessor) Course(ctx context.Context, mediaPath, notesPath string, opts CourseOptions) (*CourseResult, error) {
	if p.aligner == nil || p.extractor == nil {
		return nil, apperrors.Valuef("course", "processor built without aligner or extractor")
	}

	topics, err := outline.Load(notesPath)
	if err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		p.logger.Warn(ctx, "Outline %s has no topics: the whole lesson will be reported as extra", notesPath)
	}

	stem := media.Stem(mediaPath)
	if opts.Week > 0 {
		if w, ok := batch.WeekOf(stem); !ok {
			p.logger.Warn(ctx, "File name %q has no week marker; weekly batch runs with --week %d will not pick it up", stem, opts.Week)
		} else if w != opts.Week {
			p.logger.Warn(ctx, "File name %q is marked week %d but --week is %d", stem, w, opts.Week)
		}
	}

	outDir := p.outputDir(opts.OutputDir)
	startTime := time.Now()
	p.logger.Info(ctx, "Starting course diff: %s against %s (%d topics)", mediaPath, notesPath, len(topics))

	tr, err := p.transcribe(ctx, mediaPath, transcriber.Options{
		Model:    p.pick(opts.Model, p.cfg.Speech.Model),
		Language: p.pick(opts.Language, p.cfg.Speech.Language),
		Diarize:  opts.Diarize,
	}, opts.Speakers)
	if err != nil {
		return nil, err
	}

	report, err := p.aligner.Align(ctx, tr.SegmentsCopy(), topics)
	if err != nil {
		return nil, err
	}
	if report.Degraded {
		p.logger.Warn(ctx, "Diff for %s is degraded: %v", stem, report.Warning)
	}

	md, err := render.DiffMarkdown(report, stem, opts.Week)
	if err != nil {
		return nil, err
	}
	diffJSON, err := render.DiffJSON(report)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	diffPath := filepath.Join(outDir, stem+"_diff.md")
	if err := writeOutput(diffPath, []byte(md)); err != nil {
		return nil, err
	}
	diffJSONPath := filepath.Join(outDir, stem+"_diff.json")
	if err := writeOutput(diffJSONPath, diffJSON); err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "Diff written: %s (coverage %.0f%%)", diffPath, report.Coverage*100)

	items, err := p.extractor.Extract(ctx, tr, tr.Speakers)
	if err != nil {
		return nil, err
	}
	actionsPath, err := actions.WriteFile(outDir, mediaPath, items)
	if err != nil {
		return nil, err
	}

	p.logger.Info(ctx, "Action items written: %s (%d items, %s)", actionsPath, len(items), time.Since(startTime).Round(time.Millisecond))
	return &CourseResult{
		Report:       report,
		Items:        items,
		DiffPath:     diffPath,
		DiffJSONPath: diffJSONPath,
		ActionsPath:  actionsPath,
	}, nil
}

// Process is the watch-mode entry point with configured defaults.
func (p *implProcessor) Process(ctx context.Context, mediaPath string) error {
	diarize := p.cfg.Speech.DiarizeEnabled()

	if notes, ok := siblingNotes(mediaPath); ok && p.aligner != nil && p.extractor != nil {
		week, _ := batch.WeekOf(media.Stem(mediaPath))
		_, err := p.Course(ctx, mediaPath, notes, CourseOptions{Week: week, Diarize: diarize})
		return err
	}

	_, err := p.Transcribe(ctx, mediaPath, TranscribeOptions{
		Format:  render.FormatMarkdown,
		Diarize: diarize,
	})
	return err
}

// transcribe prepares the audio, calls the speech service and names speakers.
func (p *implProcessor) transcribe(ctx context.Context, mediaPath string, opts transcriber.Options, speakers []string) (*transcript.Transcript, error) {
	audioPath, cleanup, err := p.media.Prepare(ctx, mediaPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tr, err := p.transcriber.Transcribe(ctx, audioPath, opts)
	if err != nil {
		return nil, err
	}
	tr.SourceFile = mediaPath

	if len(speakers) > 0 {
		tr = tr.AssignSpeakers(speakers)
	}
	if err := tr.Validate(); err != nil {
		p.logger.Warn(ctx, "Transcript for %s is irregular: %v", filepath.Base(mediaPath), err)
	}
	return tr, nil
}

func (p *implProcessor) outputDir(dir string) string {
	if dir != "" {
		return dir
	}
	return p.cfg.Paths.Output
}

func (p *implProcessor) pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// siblingNotes finds <stem>.txt or <stem>.md next to the media file.
func siblingNotes(mediaPath string) (string, bool) {
	base := filepath.Join(filepath.Dir(mediaPath), media.Stem(mediaPath))
	for _, ext := range []string{".txt", ".md"} {
		candidate := base + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// writeOutput creates or overwrites path.
func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return apperrors.Input("write output", path, err)
		}
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
