package actions

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

const extractSystem = `You extract action items from a lesson or meeting transcript.
The transcript is given as numbered segments: #index [start-end] speaker: text.
An action item is a concrete task someone committed to or was asked to do.

Respond with ONLY valid JSON matching this schema:
{
  "action_items": [
    {"text": "Send the slides to the group", "owner": "Alex", "due": "Friday", "priority": "high", "segment": 4}
  ]
}

Rules:
- "text" is a short imperative sentence.
- "owner" is the person responsible; leave it empty when nobody is named.
- "due" is the deadline as spoken ("next week", "Friday"); leave it empty when none is given.
- "priority" is one of high, normal, low.
- "segment" is the index of the segment where the task is first mentioned.
- Return {"action_items": []} when there are none.`

type extractReply struct {
	ActionItems *[]itemReply `json:"action_items"`
}

type itemReply struct {
	Text     string `json:"text"`
	Owner    string `json:"owner"`
	Due      string `json:"due"`
	Priority string `json:"priority"`
	Segment  *int   `json:"segment"`
}

// Extract sends the transcript in one reasoning call. Malformed replies are
// retried like transient failures.
func (e *implExtractor) Extract(ctx context.Context, tr *transcript.Transcript, speakers []string) ([]Item, error) {
	if tr == nil || (len(tr.Segments) == 0 && strings.TrimSpace(tr.RawText) == "") {
		e.logger.Debug(ctx, "Empty transcript: no action items")
		return []Item{}, nil
	}

	req := llm.Request{
		System: extractSystem,
		Prompt: buildPrompt(tr, speakers),
		JSON:   true,
	}

	var reply []itemReply
	err := retry.Do(ctx, e.policy, "extract", func(ctx context.Context) error {
		text, err := e.client.Generate(ctx, req)
		if err != nil {
			return err
		}
		var r extractReply
		if err := llm.DecodeJSON(text, &r); err != nil {
			e.logger.Debug(ctx, "Extraction reply rejected: %v", err)
			return err
		}
		if r.ActionItems == nil {
			return apperrors.Malformed(`reply has no "action_items" array`)
		}
		reply = *r.ActionItems
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := e.normalize(ctx, tr, reply, speakers)
	e.logger.Info(ctx, "Extracted %d action items", len(items))
	return items, nil
}

func buildPrompt(tr *transcript.Transcript, speakers []string) string {
	var sb strings.Builder
	if len(speakers) > 0 {
		fmt.Fprintf(&sb, "KNOWN SPEAKERS: %s\n\n", strings.Join(speakers, ", "))
	}
	sb.WriteString("TRANSCRIPT:\n---\n")
	if len(tr.Segments) > 0 {
		sb.WriteString(transcript.Numbered(tr.Segments))
	} else {
		sb.WriteString(tr.RawText)
		sb.WriteString("\n")
	}
	sb.WriteString("---")
	return sb.String()
}

type ranked struct {
	item    Item
	segment int
}

// normalize validates the reply items, resolves timestamps and owners, orders
// by first mention and collapses duplicates.
func (e *implExtractor) normalize(ctx context.Context, tr *transcript.Transcript, reply []itemReply, speakers []string) []Item {
	source := filepath.Base(tr.SourceFile)
	list := make([]ranked, 0, len(reply))

	for i, r := range reply {
		text := Normalize(r.Text)
		if text == "" {
			e.logger.Debug(ctx, "Dropping action item %d without text", i)
			continue
		}

		item := Item{
			Text:       text,
			Owner:      canonicalOwner(r.Owner, speakers),
			Due:        Normalize(r.Due),
			SourceFile: source,
		}
		if strings.TrimSpace(r.Priority) != "" {
			item.Priority = ParsePriority(r.Priority)
		}

		seg := -1
		if r.Segment != nil {
			if idx := *r.Segment; idx >= 0 && idx < len(tr.Segments) {
				seg = idx
				start := tr.Segments[idx].Start
				item.SourceTimestamp = &start
			} else {
				e.logger.Debug(ctx, "Action item %d cites segment %d outside transcript", i, idx)
			}
		}
		list = append(list, ranked{item: item, segment: seg})
	}

	// untimed items keep reply order after the timed ones
	sort.SliceStable(list, func(a, b int) bool {
		sa, sb := list[a].segment, list[b].segment
		if sa < 0 || sb < 0 {
			return sa >= 0 && sb < 0
		}
		return sa < sb
	})

	items := make([]Item, 0, len(list))
	seen := make(map[string]int, len(list))
	for _, r := range list {
		key := Key(r.item.Text)
		if at, ok := seen[key]; ok {
			first := &items[at]
			if first.Owner == "" {
				first.Owner = r.item.Owner
			}
			if first.Due == "" {
				first.Due = r.item.Due
			}
			continue
		}
		seen[key] = len(items)
		items = append(items, r.item)
	}
	return items
}

// canonicalOwner returns the known speaker matching name, or the name as given.
func canonicalOwner(name string, speakers []string) string {
	name = Normalize(name)
	if name == "" {
		return ""
	}
	for _, s := range speakers {
		if EqualFold(s, name) {
			return Normalize(s)
		}
	}
	return name
}
