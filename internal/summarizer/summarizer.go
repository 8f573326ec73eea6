package summarizer

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

const summaryPrompt = `You are analyzing a transcript. Provide a structured summary in JSON format.

Respond with ONLY valid JSON matching this schema:
{
  "title": "A concise title for this transcript",
  "summary": "2-3 sentence summary of the content",
  "key_points": ["point 1", "point 2"],
  "action_items": ["action 1", "action 2"]
}

If there are no action items, use an empty list.`

// Summarize sends the plain transcript text to the reasoning service.
func (s *implSummarizer) Summarize(ctx context.Context, tr *transcript.Transcript) (*Summary, error) {
	text := strings.TrimSpace(tr.Text(true))
	if text == "" {
		s.logger.Debug(ctx, "Empty transcript: nothing to summarize")
		return &Summary{KeyPoints: []string{}, ActionItems: []string{}}, nil
	}

	req := llm.Request{
		System: summaryPrompt,
		Prompt: "Transcript:\n" + text,
		JSON:   true,
	}

	var summary Summary
	err := retry.Do(ctx, s.policy, "summarize", func(ctx context.Context) error {
		reply, err := s.client.Generate(ctx, req)
		if err != nil {
			return err
		}
		summary = Summary{}
		return llm.DecodeJSON(reply, &summary)
	})
	if err != nil {
		return nil, err
	}

	summary.Title = strings.TrimSpace(summary.Title)
	summary.Summary = strings.TrimSpace(summary.Summary)
	summary.KeyPoints = compact(summary.KeyPoints)
	summary.ActionItems = compact(summary.ActionItems)

	s.logger.Info(ctx, "Summary ready: %q (%d key points)", summary.Title, len(summary.KeyPoints))
	return &summary, nil
}

func compact(list []string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
