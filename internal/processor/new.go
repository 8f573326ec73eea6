package processor

import (
	"github.com/nguyentantai21042004/course-scribe/internal/actions"
	"github.com/nguyentantai21042004/course-scribe/internal/aligner"
	"github.com/nguyentantai21042004/course-scribe/internal/config"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/media"
	"github.com/nguyentantai21042004/course-scribe/internal/summarizer"
	"github.com/nguyentantai21042004/course-scribe/internal/transcriber"
)

// Deps are the collaborators a Processor drives. Aligner, Extractor and
// Summarizer may be nil when the commands that need them are not used.
type Deps struct {
	Config      *config.Config
	Media       media.Preparer
	Transcriber transcriber.Transcriber
	Aligner     aligner.Aligner
	Extractor   actions.Extractor
	Summarizer  summarizer.Summarizer
	Logger      logger.Logger
}

type implProcessor struct {
	cfg         *config.Config
	media       media.Preparer
	transcriber transcriber.Transcriber
	aligner     aligner.Aligner
	extractor   actions.Extractor
	summarizer  summarizer.Summarizer
	logger      logger.Logger
}

// New creates a new Processor instance
func New(d Deps) Processor {
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return &implProcessor{
		cfg:         cfg,
		media:       d.Media,
		transcriber: d.Transcriber,
		aligner:     d.Aligner,
		extractor:   d.Extractor,
		summarizer:  d.Summarizer,
		logger:      d.Logger,
	}
}
