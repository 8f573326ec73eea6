package render

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Format is a transcript output format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatSRT      Format = "srt"
	FormatDocx     Format = "docx"
)

// ParseFormat accepts the format names and a few common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "srt":
		return FormatSRT, nil
	case "docx":
		return FormatDocx, nil
	default:
		return "", fmt.Errorf("unknown format %q (want md, json, text, srt or docx)", s)
	}
}

// Ext returns the file extension written for the format.
func (f Format) Ext() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	default:
		return "." + string(f)
	}
}

// TranscriptOptions controls transcript rendering.
type TranscriptOptions struct {
	NoTimes bool
	Summary *summarizer.Summary
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TranscriptMarkdown renders the summary (if any) followed by the transcript.
func TranscriptMarkdown(tr *transcript.Transcript, opts TranscriptOptions) (string, error) {
	if tr == nil {
		return "", apperrors.Valuef("render transcript", "nil transcript")
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("# Transcript: %s\n", stem(tr.SourceFile)))
	if tr.Duration > 0 {
		lines = append(lines, fmt.Sprintf("**Duration:** %s\n", tr.Duration))
	}
	if len(tr.Speakers) > 0 {
		lines = append(lines, fmt.Sprintf("**Speakers:** %s\n", strings.Join(tr.Speakers, ", ")))
	}

	if s := opts.Summary; s != nil {
		if s.Title != "" {
			lines = append(lines, fmt.Sprintf("## %s\n", s.Title))
		}
		if s.Summary != "" {
			lines = append(lines, s.Summary+"\n")
		}
		if len(s.KeyPoints) > 0 {
			lines = append(lines, "### Key Points\n")
			for _, p := range s.KeyPoints {
				lines = append(lines, "- "+p)
			}
			lines = append(lines, "")
		}
		if len(s.ActionItems) > 0 {
			lines = append(lines, "### Action Items\n")
			for _, a := range s.ActionItems {
				lines = append(lines, "- [ ] "+a)
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, "---\n", "## Transcript\n")
	switch {
	case len(tr.Segments) == 0:
		lines = append(lines, tr.RawText)
	case opts.NoTimes:
		for _, seg := range tr.Segments {
			lines = append(lines, seg.Text+"\n")
		}
	default:
		for _, seg := range tr.Segments {
			lines = append(lines, fmt.Sprintf("**[%s] %s:** %s\n", seg.Start, speaker(seg.Speaker), seg.Text))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// TranscriptText renders one line per segment.
func TranscriptText(tr *transcript.Transcript, opts TranscriptOptions) (string, error) {
	if tr == nil {
		return "", apperrors.Valuef("render transcript", "nil transcript")
	}
	return tr.Text(!opts.NoTimes) + "\n", nil
}

type transcriptDoc struct {
	*transcript.Transcript
	Summary *summarizer.Summary `json:"summary,omitempty"`
}

// TranscriptJSON renders the transcript with its summary embedded. Timestamps
// are part of the schema, so NoTimes is rejected.
func TranscriptJSON(tr *transcript.Transcript, opts TranscriptOptions) ([]byte, error) {
	if tr == nil {
		return nil, apperrors.Valuef("render transcript", "nil transcript")
	}
	if opts.NoTimes {
		return nil, apperrors.Valuef("render transcript", "json output always carries timestamps")
	}
	doc := transcriptDoc{Transcript: tr, Summary: opts.Summary}
	if doc.Segments == nil {
		cp := *tr
		cp.Segments = []transcript.Segment{}
		doc.Transcript = &cp
	}
	return marshal(doc)
}

// SRT renders the segments as numbered subtitle cues.
func SRT(tr *transcript.Transcript) (string, error) {
	if tr == nil {
		return "", apperrors.Valuef("render srt", "nil transcript")
	}

	var sb strings.Builder
	for i, seg := range tr.Segments {
		if seg.End <= seg.Start {
			return "", apperrors.Valuef("render srt", "segment %d ends before it starts", i)
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n", i+1, srtTime(seg.Start), srtTime(seg.End))
		if seg.Speaker != "" {
			fmt.Fprintf(&sb, "%s: %s\n\n", seg.Speaker, seg.Text)
		} else {
			fmt.Fprintf(&sb, "%s\n\n", seg.Text)
		}
	}
	return sb.String(), nil
}

func srtTime(o transcript.Offset) string {
	d := time.Duration(o)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Transcript renders any text format. Docx is written with TranscriptDocx.
func Transcript(tr *transcript.Transcript, format Format, opts TranscriptOptions) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		s, err := TranscriptMarkdown(tr, opts)
		return []byte(s), err
	case FormatText:
		s, err := TranscriptText(tr, opts)
		return []byte(s), err
	case FormatJSON:
		return TranscriptJSON(tr, opts)
	case FormatSRT:
		s, err := SRT(tr)
		return []byte(s), err
	default:
		return nil, apperrors.Valuef("render transcript", "format %q is not a text format", format)
	}
}
