package aligner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/outline"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

func testConfig() Config {
	return Config{
		CoveredThreshold: 0.7,
		PartialThreshold: 0.3,
		Retry:            retry.Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond, Multiplier: 1},
	}
}

func topicsOf(texts ...string) []outline.Topic {
	topics := make([]outline.Topic, len(texts))
	for i, t := range texts {
		topics[i] = outline.Topic{Index: i, Text: t}
	}
	return topics
}

func segmentsOf(texts ...string) []transcript.Segment {
	segs := make([]transcript.Segment, len(texts))
	for i, t := range texts {
		segs[i] = transcript.Segment{
			Start:   transcript.Seconds(float64(i * 10)),
			End:     transcript.Seconds(float64(i*10 + 9)),
			Speaker: "Alex",
			Text:    t,
		}
	}
	return segs
}

func replying(reply string) (llm.Client, *int) {
	calls := 0
	return llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		return reply, nil
	}), &calls
}

func statuses(r *Report) []Status {
	out := make([]Status, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Status
	}
	return out
}

func TestAlignScenarioCoveredMissingCoveredWithTangent(t *testing.T) {
	segs := segmentsOf(
		"Welcome to the course",
		"Here is what we will cover",
		"Funny story about my cat",
		"A for loop repeats a block",
	)
	client, _ := replying(`{"topics":[
		{"index":0,"start_segment":0,"end_segment":1,"coverage":0.95},
		{"index":1,"coverage":0.0,"note":"never mentioned"},
		{"index":2,"start_segment":3,"end_segment":3,"coverage":0.9}
	]}`)

	a := New(client, testConfig(), logger.Nop())
	report, err := a.Align(context.Background(), segs, topicsOf("Intro", "Variables", "Loops"))
	require.NoError(t, err)

	assert.Equal(t, []Status{StatusCovered, StatusMissing, StatusExtra, StatusCovered}, statuses(report))
	assert.InDelta(t, 2.0/3.0, report.Coverage, 1e-9)
	assert.False(t, report.Degraded)
	assert.NoError(t, report.Warning)

	assert.Equal(t, []int{0, 1}, report.Entries[0].Evidence)
	assert.Empty(t, report.Entries[1].Evidence)
	assert.Equal(t, "never mentioned", report.Entries[1].Note)
	assert.Nil(t, report.Entries[2].Topic)
	assert.Equal(t, []int{2}, report.Entries[2].Evidence)
	assert.Equal(t, "Loops", report.Entries[3].Topic.Text)
}

func TestAlignPartialCoverage(t *testing.T) {
	client, _ := replying(`{"topics":[{"index":0,"start_segment":0,"end_segment":0,"coverage":0.5}]}`)

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("brief mention"), topicsOf("Recursion"))
	require.NoError(t, err)

	require.Len(t, report.Entries, 1)
	assert.Equal(t, StatusPartial, report.Entries[0].Status)
	assert.Equal(t, 1.0, report.Coverage)
}

func TestAlignTieBreakFavoursEarlierTopic(t *testing.T) {
	// both topics claim segment 1; the earlier one keeps it
	client, _ := replying(`{"topics":[
		{"index":0,"start_segment":0,"end_segment":1,"coverage":0.9},
		{"index":1,"start_segment":1,"end_segment":2,"coverage":0.9}
	]}`)

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("a", "b", "c"), topicsOf("A", "B"))
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, []int{0, 1}, report.Entries[0].Evidence)
	assert.Equal(t, []int{2}, report.Entries[1].Evidence)
}

func TestAlignNonMonotonicRunBecomesMissing(t *testing.T) {
	client, _ := replying(`{"topics":[
		{"index":0,"start_segment":2,"end_segment":3,"coverage":0.9},
		{"index":1,"start_segment":0,"end_segment":1,"coverage":0.9}
	]}`)

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("a", "b", "c", "d"), topicsOf("A", "B"))
	require.NoError(t, err)

	// extra [0,1] precedes topic A at [2,3]; topic B lost its run to A's claim
	assert.Equal(t, []Status{StatusExtra, StatusCovered, StatusMissing}, statuses(report))
	assert.Contains(t, report.Entries[2].Note, "earlier topic")
	assert.InDelta(t, 0.5, report.Coverage, 1e-9)
}

func TestAlignAbsentTopicIsMissing(t *testing.T) {
	client, _ := replying(`{"topics":[{"index":1,"start_segment":0,"end_segment":0,"coverage":1}]}`)

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("b"), topicsOf("A", "B"))
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusMissing, StatusCovered}, statuses(report))
}

func TestAlignEmptyTranscript(t *testing.T) {
	client, calls := replying(`unused`)

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), nil, topicsOf("A", "B"))
	require.NoError(t, err)

	assert.Equal(t, []Status{StatusMissing, StatusMissing}, statuses(report))
	assert.Equal(t, 0.0, report.Coverage)
	assert.Equal(t, 0, *calls)
}

func TestAlignEmptyOutline(t *testing.T) {
	client, calls := replying(`unused`)
	a := New(client, testConfig(), logger.Nop())

	report, err := a.Align(context.Background(), segmentsOf("a", "b"), nil)
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusExtra}, statuses(report))
	assert.Equal(t, []int{0, 1}, report.Entries[0].Evidence)
	assert.Equal(t, 1.0, report.Coverage)

	empty, err := a.Align(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
	assert.Equal(t, 1.0, empty.Coverage)
	assert.Equal(t, 0, *calls)
}

func TestAlignDegradesOnServiceFailure(t *testing.T) {
	calls := 0
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		return "", context.DeadlineExceeded
	})

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("a", "b"), topicsOf("A", "B"))
	require.NoError(t, err)

	assert.True(t, report.Degraded)
	assert.True(t, apperrors.IsKind(report.Warning, apperrors.KindAlignmentDegraded))
	assert.Equal(t, []Status{StatusMissing, StatusMissing, StatusExtra}, statuses(report))
	assert.Equal(t, []int{0, 1}, report.Entries[2].Evidence)
	assert.Equal(t, 2, calls)
}

func TestAlignDegradesOnInvalidReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"not json", "I could not do that"},
		{"no topics key", `{"results":[]}`},
		{"index out of range", `{"topics":[{"index":5,"coverage":0}]}`},
		{"duplicate index", `{"topics":[{"index":0,"coverage":0},{"index":0,"coverage":0}]}`},
		{"coverage out of range", `{"topics":[{"index":0,"coverage":1.5,"start_segment":0,"end_segment":0}]}`},
		{"covered without run", `{"topics":[{"index":0,"coverage":0.9}]}`},
		{"run past transcript", `{"topics":[{"index":0,"coverage":0.9,"start_segment":0,"end_segment":9}]}`},
		{"reversed run", `{"topics":[{"index":0,"coverage":0.9,"start_segment":1,"end_segment":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := replying(tt.reply)
			report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("a", "b"), topicsOf("A"))
			require.NoError(t, err)
			assert.True(t, report.Degraded)
			assert.True(t, errors.Is(report.Warning, apperrors.ErrMalformedResponse))
		})
	}
}

func TestAlignRecoversOnRetry(t *testing.T) {
	calls := 0
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		if calls == 1 {
			return "garbage", nil
		}
		return `{"topics":[{"index":0,"start_segment":0,"end_segment":0,"coverage":0.8}]}`, nil
	})

	report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("a"), topicsOf("A"))
	require.NoError(t, err)
	assert.False(t, report.Degraded)
	assert.Equal(t, []Status{StatusCovered}, statuses(report))
}

func TestAlignCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		cancel()
		return "", context.Canceled
	})

	_, err := New(client, testConfig(), logger.Nop()).Align(ctx, segmentsOf("a"), topicsOf("A"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlignPromptCarriesOutlineAndNumberedTranscript(t *testing.T) {
	var got llm.Request
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		got = req
		return `{"topics":[]}`, nil
	})

	_, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("hello"), topicsOf("Intro"))
	require.NoError(t, err)

	assert.True(t, got.JSON)
	assert.Contains(t, got.Prompt, "0. Intro")
	assert.Contains(t, got.Prompt, "#0 [00:00-00:09] Alex: hello")
}

// every topic appears exactly once, in outline order, whatever the reply
func TestAlignTopicEntriesPreserveOutline(t *testing.T) {
	replies := []string{
		`{"topics":[]}`,
		`{"topics":[{"index":2,"start_segment":0,"end_segment":4,"coverage":1}]}`,
		`{"topics":[{"index":0,"start_segment":3,"end_segment":4,"coverage":1},{"index":1,"start_segment":0,"end_segment":2,"coverage":1}]}`,
		`{"topics":[{"index":0,"start_segment":1,"end_segment":1,"coverage":0.4},{"index":2,"start_segment":3,"end_segment":3,"coverage":0.99}]}`,
		`broken`,
	}
	topics := topicsOf("A", "B", "C")

	for i, reply := range replies {
		t.Run(fmt.Sprintf("reply %d", i), func(t *testing.T) {
			client, _ := replying(reply)
			report, err := New(client, testConfig(), logger.Nop()).Align(context.Background(), segmentsOf("1", "2", "3", "4", "5"), topics)
			require.NoError(t, err)

			var order []string
			for _, e := range report.TopicEntries() {
				order = append(order, e.Topic.Text)
				if e.Status == StatusMissing {
					assert.Empty(t, e.Evidence)
				}
			}
			assert.Equal(t, "A,B,C", strings.Join(order, ","))

			for _, e := range report.Entries {
				if e.Status == StatusExtra {
					assert.Nil(t, e.Topic)
				}
			}
		})
	}
}
