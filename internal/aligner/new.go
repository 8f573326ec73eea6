package aligner

import (
	"github.com/nguyentantai21042004/course-scribe/internal/llm"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
)

// Config holds the coverage thresholds and the retry policy for the reasoning call.
type Config struct {
	CoveredThreshold float64
	PartialThreshold float64
	Retry            retry.Policy
}

type implAligner struct {
	client llm.Client
	cfg    Config
	logger logger.Logger
}

// New creates an Aligner that asks client for the topic-to-segment mapping.
func New(client llm.Client, cfg Config, log logger.Logger) Aligner {
	if cfg.CoveredThreshold == 0 {
		cfg.CoveredThreshold = 0.7
	}
	if cfg.PartialThreshold == 0 {
		cfg.PartialThreshold = 0.3
	}
	return &implAligner{
		client: client,
		cfg:    cfg,
		logger: log,
	}
}
