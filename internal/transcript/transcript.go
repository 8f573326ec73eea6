package transcript

import (
	"fmt"
	"strings"
)

// Validate checks Start < End and non-empty text.
func (s Segment) Validate() error {
	if s.Start >= s.End {
		return fmt.Errorf("segment start %s is not before end %s", s.Start, s.End)
	}
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("segment at %s has no text", s.Start)
	}
	return nil
}

// Validate checks every segment, ordering by start, and that no two segments of
// the same speaker overlap. Segments of different speakers may overlap.
func (t *Transcript) Validate() error {
	lastEnd := make(map[string]Offset)
	for i, seg := range t.Segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
		if i > 0 && seg.Start < t.Segments[i-1].Start {
			return fmt.Errorf("segment %d starts at %s before segment %d at %s",
				i, seg.Start, i-1, t.Segments[i-1].Start)
		}
		if end, ok := lastEnd[seg.Speaker]; ok && seg.Start < end {
			return fmt.Errorf("segment %d overlaps the previous segment of speaker %q", i, seg.Speaker)
		}
		lastEnd[seg.Speaker] = seg.End
	}
	return nil
}

// SegmentsCopy returns a copy of the segments so callers cannot mutate the transcript.
func (t *Transcript) SegmentsCopy() []Segment {
	out := make([]Segment, len(t.Segments))
	copy(out, t.Segments)
	return out
}

// AssignSpeakers returns a copy in which the i-th detected speaker is renamed
// to names[i]. Speakers beyond len(names) keep their label.
func (t *Transcript) AssignSpeakers(names []string) *Transcript {
	rename := make(map[string]string, len(t.Speakers))
	speakers := make([]string, len(t.Speakers))
	for i, label := range t.Speakers {
		speakers[i] = label
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			speakers[i] = strings.TrimSpace(names[i])
		}
		rename[label] = speakers[i]
	}

	segments := t.SegmentsCopy()
	for i := range segments {
		if name, ok := rename[segments[i].Speaker]; ok {
			segments[i].Speaker = name
		}
	}

	out := *t
	out.Speakers = speakers
	out.Segments = segments
	return &out
}

// Text renders the transcript as plain lines. Without times, speaker labels and
// timestamps are dropped and only the spoken text remains.
func (t *Transcript) Text(withTimes bool) string {
	if len(t.Segments) == 0 {
		return t.RawText
	}

	lines := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if !withTimes {
			lines = append(lines, seg.Text)
			continue
		}
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", seg.Start, speakerName(seg.Speaker), seg.Text))
	}
	return strings.Join(lines, "\n")
}

// Numbered renders one line per segment prefixed with its index so a reasoning
// service can refer back to segments by number.
func Numbered(segments []Segment) string {
	var sb strings.Builder
	for i, seg := range segments {
		fmt.Fprintf(&sb, "#%d [%s-%s] %s: %s\n", i, seg.Start, seg.End, speakerName(seg.Speaker), seg.Text)
	}
	return sb.String()
}

func speakerName(label string) string {
	if label == "" {
		return "Speaker"
	}
	return label
}
