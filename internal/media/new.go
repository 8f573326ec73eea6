package media

import (
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/pkg/executor"
)

// Config names the media tools and where scratch audio goes.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	SampleRate  int
	TempDir     string
}

type implPreparer struct {
	cfg      Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Preparer that shells out to ffmpeg and ffprobe.
func New(cfg Config, exec executor.Executor, log logger.Logger) Preparer {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	return &implPreparer{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}
