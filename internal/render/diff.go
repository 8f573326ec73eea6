// Package render turns diff reports, digests and transcripts into markdown,
// JSON, plain text, SRT and docx. Everything except the docx writers is pure.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/course-scribe/internal/aligner"
	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

var statusMarker = map[aligner.Status]string{
	aligner.StatusCovered: "[covered]",
	aligner.StatusPartial: "[partial]",
	aligner.StatusMissing: "[missing]",
	aligner.StatusExtra:   "[extra]",
}

// ValidateReport checks the entry invariants renderers rely on.
func ValidateReport(r *aligner.Report) error {
	if r == nil {
		return apperrors.Valuef("render diff", "nil report")
	}
	for i, e := range r.Entries {
		if _, ok := statusMarker[e.Status]; !ok {
			return apperrors.Valuef("render diff", "entry %d has unknown status %q", i, e.Status)
		}
		if e.Status == aligner.StatusExtra && e.Topic != nil {
			return apperrors.Valuef("render diff", "extra entry %d carries topic %d", i, e.Topic.Index)
		}
		if e.Status != aligner.StatusExtra && e.Topic == nil {
			return apperrors.Valuef("render diff", "%s entry %d has no topic", e.Status, i)
		}
		if e.Status == aligner.StatusMissing && len(e.Evidence) > 0 {
			return apperrors.Valuef("render diff", "missing entry %d has evidence", i)
		}
		for j, idx := range e.Evidence {
			if idx < 0 || idx >= len(r.Segments) {
				return apperrors.Valuef("render diff", "entry %d cites segment %d of %d", i, idx, len(r.Segments))
			}
			if j > 0 && idx <= e.Evidence[j-1] {
				return apperrors.Valuef("render diff", "entry %d evidence is not ascending", i)
			}
		}
	}
	return nil
}

// DiffMarkdown renders the report with one header per topic and extra
// material interleaved where it occurred.
func DiffMarkdown(r *aligner.Report, title string, week int) (string, error) {
	if err := ValidateReport(r); err != nil {
		return "", err
	}

	var sb strings.Builder
	heading := "# Course Diff"
	if week > 0 {
		heading = fmt.Sprintf("# Course Diff - Week %d", week)
	}
	sb.WriteString(heading + "\n\n")
	if title != "" {
		fmt.Fprintf(&sb, "**Lesson:** %s\n\n", title)
	}

	if r.Degraded {
		sb.WriteString("> **Alignment degraded.** The reasoning service could not align this lesson, ")
		sb.WriteString("so every topic is reported as missing and the whole transcript as extra material.")
		if r.Warning != nil {
			fmt.Fprintf(&sb, "\n> Reason: %s", r.Warning)
		}
		sb.WriteString("\n\n")
	}

	counts := r.Counts()
	topics := counts[aligner.StatusCovered] + counts[aligner.StatusPartial] + counts[aligner.StatusMissing]
	fmt.Fprintf(&sb, "**Coverage:** %.0f%% (%d covered, %d partial, %d missing of %d topics; %d extra runs)\n\n",
		r.Coverage*100,
		counts[aligner.StatusCovered], counts[aligner.StatusPartial], counts[aligner.StatusMissing],
		topics, counts[aligner.StatusExtra])

	for _, e := range r.Entries {
		if e.Status == aligner.StatusExtra {
			fmt.Fprintf(&sb, "## %s Not in outline (%s)\n\n", statusMarker[e.Status], span(r.Segments, e.Evidence))
		} else {
			fmt.Fprintf(&sb, "## %s %d. %s\n\n", statusMarker[e.Status], e.Topic.Index+1, e.Topic.Text)
		}
		if e.Note != "" && e.Status != aligner.StatusExtra {
			fmt.Fprintf(&sb, "_%s_\n\n", e.Note)
		}
		for _, idx := range e.Evidence {
			seg := r.Segments[idx]
			fmt.Fprintf(&sb, "- **[%s] %s:** %s\n", seg.Start, speaker(seg.Speaker), seg.Text)
		}
		if len(e.Evidence) > 0 {
			sb.WriteString("\n")
		}
	}

	return sb.String(), nil
}

func span(segs []transcript.Segment, evidence []int) string {
	if len(evidence) == 0 {
		return "empty"
	}
	first, last := segs[evidence[0]], segs[evidence[len(evidence)-1]]
	return fmt.Sprintf("%s-%s", first.Start, last.End)
}

func speaker(label string) string {
	if label == "" {
		return "Speaker"
	}
	return label
}

type diffDoc struct {
	Coverage float64              `json:"coverage"`
	Degraded bool                 `json:"degraded"`
	Warning  string               `json:"warning,omitempty"`
	Entries  []aligner.Entry      `json:"entries"`
	Segments []transcript.Segment `json:"segments"`
}

// DiffJSON renders the report entries with the coverage ratio.
func DiffJSON(r *aligner.Report) ([]byte, error) {
	if err := ValidateReport(r); err != nil {
		return nil, err
	}
	doc := diffDoc{
		Coverage: r.Coverage,
		Degraded: r.Degraded,
		Entries:  r.Entries,
		Segments: r.Segments,
	}
	if r.Warning != nil {
		doc.Warning = r.Warning.Error()
	}
	if doc.Entries == nil {
		doc.Entries = []aligner.Entry{}
	}
	if doc.Segments == nil {
		doc.Segments = []transcript.Segment{}
	}
	return marshal(doc)
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, apperrors.Valuef("render json", "%v", err)
	}
	return append(data, '\n'), nil
}
