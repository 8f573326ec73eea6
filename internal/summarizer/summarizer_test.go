package summarizer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
	"github.com/nguyentantai21042004/course-scribe/internal/transcript"
)

var policy = retry.Policy{MaxAttempts: 2, InitialBackoff: time.Millisecond, Multiplier: 1}

func sample() *transcript.Transcript {
	return &transcript.Transcript{
		SourceFile: "talk.mp4",
		Segments: []transcript.Segment{
			{Start: transcript.Seconds(0), End: transcript.Seconds(4), Speaker: "Alex", Text: "Today we cover loops"},
		},
	}
}

func TestSummarize(t *testing.T) {
	var prompt string
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		prompt = req.Prompt
		return "```json\n{\"title\":\" Loops \",\"summary\":\"All about loops.\",\"key_points\":[\"for\",\" \",\"while\"],\"action_items\":[]}\n```", nil
	})

	got, err := New(client, policy, logger.Nop()).Summarize(context.Background(), sample())
	require.NoError(t, err)

	assert.Contains(t, prompt, "[00:00] Alex: Today we cover loops")
	assert.Equal(t, "Loops", got.Title)
	assert.Equal(t, []string{"for", "while"}, got.KeyPoints)
	assert.Empty(t, got.ActionItems)
}

func TestSummarizeMalformedReplyFails(t *testing.T) {
	calls := 0
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		calls++
		return "Sure! Here is your summary.", nil
	})

	_, err := New(client, policy, logger.Nop()).Summarize(context.Background(), sample())
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, apperrors.KindExternalService, apperrors.KindOf(err))
}

func TestSummarizeEmptyTranscript(t *testing.T) {
	client := llm.Func(func(ctx context.Context, req llm.Request) (string, error) {
		t.Fatal("service must not be called")
		return "", nil
	})

	got, err := New(client, policy, logger.Nop()).Summarize(context.Background(), &transcript.Transcript{})
	require.NoError(t, err)
	assert.Empty(t, got.Title)
}
