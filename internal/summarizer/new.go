package summarizer

import (
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
)

type implSummarizer struct {
	client llm.Client
	policy retry.Policy
	logger logger.Logger
}

// New creates a Summarizer backed by the reasoning client.
func New(client llm.Client, policy retry.Policy, log logger.Logger) Summarizer {
	return &implSummarizer{
		client: client,
		policy: policy,
		logger: log,
	}
}
