package aligner

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/outline"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

const alignSystem = `You are aligning a lesson transcript against its reference outline.
The transcript is given as numbered segments: #index [start-end] speaker: text.
For every outline topic, find the single contiguous run of segments that discusses it
and rate from 0 to 1 how fully that run covers the topic.

Respond with ONLY valid JSON matching this schema:
{
  "topics": [
    {"index": 0, "start_segment": 0, "end_segment": 3, "coverage": 0.9, "note": "short explanation"}
  ]
}

Rules:
- "index" is the outline topic number; include every topic once.
- Use coverage 0 and omit start_segment/end_segment for topics that are not discussed.
- Never give the same segment to two topics. When a run could belong to two adjacent
  topics, give it to the earlier topic.
- Segments that belong to no topic are tangents; leave them unassigned.`

// Align runs one batched reasoning request for the whole transcript and outline.
func (a *implAligner) Align(ctx context.Context, segments []transcript.Segment, topics []outline.Topic) (*Report, error) {
	segs := make([]transcript.Segment, len(segments))
	copy(segs, segments)

	switch {
	case len(topics) == 0:
		a.logger.Debug(ctx, "Empty outline: whole transcript reported as extra")
		return build(segs, topics, nil, false, nil), nil
	case len(segs) == 0:
		a.logger.Debug(ctx, "Empty transcript: every topic reported as missing")
		return build(segs, topics, map[int]match{}, false, nil), nil
	}

	req := llm.Request{
		System: alignSystem,
		Prompt: buildPrompt(segs, topics),
		JSON:   true,
	}

	var matches map[int]match
	err := retry.Do(ctx, a.cfg.Retry, "align", func(ctx context.Context) error {
		reply, err := a.client.Generate(ctx, req)
		if err != nil {
			return err
		}
		m, err := parseReply(reply, len(topics), len(segs), a.cfg)
		if err != nil {
			a.logger.Debug(ctx, "Alignment reply rejected: %v", err)
			return err
		}
		matches = m
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		warning := apperrors.AlignmentDegraded(err)
		a.logger.Warn(ctx, "Alignment degraded, reporting every topic as missing: %v", err)
		return build(segs, topics, nil, true, warning), nil
	}

	report := build(segs, topics, matches, false, nil)
	a.logger.Info(ctx, "Alignment complete: %d topics, coverage %.0f%%", len(topics), report.Coverage*100)
	return report, nil
}

func buildPrompt(segs []transcript.Segment, topics []outline.Topic) string {
	var sb strings.Builder
	sb.WriteString("OUTLINE:\n---\n")
	for _, t := range topics {
		fmt.Fprintf(&sb, "%d. %s\n", t.Index, t.Text)
	}
	sb.WriteString("---\n\nTRANSCRIPT:\n---\n")
	sb.WriteString(transcript.Numbered(segs))
	sb.WriteString("---")
	return sb.String()
}

// build assembles the ordered report. A nil matches map with topics present
// means the alignment is unavailable: every topic is missing and the whole
// transcript is one extra run.
func build(segs []transcript.Segment, topics []outline.Topic, matches map[int]match, degraded bool, warning error) *Report {
	report := &Report{
		Segments: segs,
		Degraded: degraded,
		Warning:  warning,
		Entries:  []Entry{},
	}

	topicEntries := make([]Entry, len(topics))
	attributed := make([]bool, len(segs))
	claimed := -1
	credited := 0

	for i := range topics {
		topic := topics[i]
		entry := Entry{Topic: &topic, Status: StatusMissing}

		m, ok := matches[i]
		if degraded {
			entry.Note = "alignment unavailable"
		}
		if !ok || m.status == StatusMissing {
			if ok {
				entry.Note = m.note
			}
			topicEntries[i] = entry
			continue
		}

		start, end := m.start, m.end
		if start <= claimed {
			start = claimed + 1
		}
		if start > end {
			entry.Note = joinNote(m.note, "material attributed to an earlier topic")
			topicEntries[i] = entry
			continue
		}

		entry.Status = m.status
		entry.Note = m.note
		for s := start; s <= end; s++ {
			entry.Evidence = append(entry.Evidence, s)
			attributed[s] = true
		}
		claimed = end
		credited++
		topicEntries[i] = entry
	}

	runs := extraRuns(attributed)
	next := 0
	for _, te := range topicEntries {
		if len(te.Evidence) > 0 {
			for next < len(runs) && runs[next][0] < te.Evidence[0] {
				report.Entries = append(report.Entries, extraEntry(runs[next]))
				next++
			}
		}
		report.Entries = append(report.Entries, te)
	}
	for ; next < len(runs); next++ {
		report.Entries = append(report.Entries, extraEntry(runs[next]))
	}

	if len(topics) == 0 {
		report.Coverage = 1.0
	} else {
		report.Coverage = float64(credited) / float64(len(topics))
	}
	return report
}

// extraRuns groups consecutive unattributed segment indices into [first, last] runs.
func extraRuns(attributed []bool) [][2]int {
	var runs [][2]int
	start := -1
	for i, taken := range attributed {
		switch {
		case !taken && start < 0:
			start = i
		case taken && start >= 0:
			runs = append(runs, [2]int{start, i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, len(attributed) - 1})
	}
	return runs
}

func extraEntry(run [2]int) Entry {
	evidence := make([]int, 0, run[1]-run[0]+1)
	for s := run[0]; s <= run[1]; s++ {
		evidence = append(evidence, s)
	}
	return Entry{Status: StatusExtra, Evidence: evidence, Note: "not in outline"}
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
