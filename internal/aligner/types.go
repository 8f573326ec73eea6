package aligner

import (
	"github.com/nguyentantai21042004/course-scribe/internal/outline"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

// Status classifies one diff entry.
type Status string

const (
	StatusCovered Status = "covered"
	StatusPartial Status = "partial"
	StatusMissing Status = "missing"
	StatusExtra   Status = "extra"
)

// Entry is either a topic (covered, partial, missing) or an unattributed
// transcript run (extra, Topic is nil). Evidence holds ascending segment
// indices into Report.Segments and is empty for missing topics.
type Entry struct {
	Topic    *outline.Topic `json:"topic,omitempty"`
	Status   Status         `json:"status"`
	Evidence []int          `json:"evidence,omitempty"`
	Note     string         `json:"note,omitempty"`
}

// Report is the ordered diff: topic entries in outline order with extra
// entries interleaved at their chronological position.
type Report struct {
	Entries  []Entry              `json:"entries"`
	Coverage float64              `json:"coverage"`
	Degraded bool                 `json:"degraded"`
	Warning  error                `json:"-"`
	Segments []transcript.Segment `json:"segments"`
}

// Counts returns how many topic entries fall into each status, plus extras.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, e := range r.Entries {
		counts[e.Status]++
	}
	return counts
}

// TopicEntries returns only the entries keyed by an outline topic.
func (r *Report) TopicEntries() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Topic != nil {
			out = append(out, e)
		}
	}
	return out
}
