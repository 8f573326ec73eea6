package actions

import (
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
)

type implExtractor struct {
	client llm.Client
	policy retry.Policy
	logger logger.Logger
}

// New creates an Extractor backed by the reasoning client.
func New(client llm.Client, policy retry.Policy, log logger.Logger) Extractor {
	return &implExtractor{
		client: client,
		policy: policy,
		logger: log,
	}
}
