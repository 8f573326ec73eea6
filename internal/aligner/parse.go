package aligner

import (
	"strings"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
)

// wire shape of the reasoning reply; pointers distinguish absent from zero
type alignReply struct {
	Topics []topicReply `json:"topics"`
}

type topicReply struct {
	Index        *int     `json:"index"`
	StartSegment *int     `json:"start_segment"`
	EndSegment   *int     `json:"end_segment"`
	Coverage     *float64 `json:"coverage"`
	Note         string   `json:"note"`
}

// match is a validated topic mapping.
type match struct {
	status Status
	start  int
	end    int
	note   string
}

// parseReply validates the reply against the outline and transcript sizes.
// Topics absent from the reply are treated as missing; anything else that does
// not fit is a malformed response.
func parseReply(reply string, topicCount, segmentCount int, cfg Config) (map[int]match, error) {
	var r alignReply
	if err := llm.DecodeJSON(reply, &r); err != nil {
		return nil, err
	}
	if r.Topics == nil {
		return nil, apperrors.Malformed(`reply has no "topics" array`)
	}

	matches := make(map[int]match, len(r.Topics))
	for i, t := range r.Topics {
		if t.Index == nil {
			return nil, apperrors.Malformed("topics[%d] has no index", i)
		}
		idx := *t.Index
		if idx < 0 || idx >= topicCount {
			return nil, apperrors.Malformed("topics[%d] index %d outside outline of %d topics", i, idx, topicCount)
		}
		if _, dup := matches[idx]; dup {
			return nil, apperrors.Malformed("topic %d listed twice", idx)
		}
		if t.Coverage == nil {
			return nil, apperrors.Malformed("topic %d has no coverage", idx)
		}
		cov := *t.Coverage
		if cov < 0 || cov > 1 {
			return nil, apperrors.Malformed("topic %d coverage %v outside [0, 1]", idx, cov)
		}

		m := match{status: classify(cov, cfg), note: strings.TrimSpace(t.Note)}
		if m.status != StatusMissing {
			if t.StartSegment == nil || t.EndSegment == nil {
				return nil, apperrors.Malformed("topic %d is %s but has no segment run", idx, m.status)
			}
			m.start, m.end = *t.StartSegment, *t.EndSegment
			if m.start < 0 || m.end < m.start || m.end >= segmentCount {
				return nil, apperrors.Malformed("topic %d run [%d, %d] outside transcript of %d segments",
					idx, m.start, m.end, segmentCount)
			}
		}
		matches[idx] = m
	}
	return matches, nil
}

func classify(coverage float64, cfg Config) Status {
	switch {
	case coverage >= cfg.CoveredThreshold:
		return StatusCovered
	case coverage >= cfg.PartialThreshold:
		return StatusPartial
	default:
		return StatusMissing
	}
}
