package transcriber

import (
	"time"

	prerecorded "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listenrest "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen/v1/rest"

	"github.com/nguyentantai21042004/course-scribe/internal/logger"
	"github.com/nguyentantai21042004/course-scribe/internal/retry"
)

// DefaultHost is the Deepgram API host.
const DefaultHost = "https://api.deepgram.com"

// Config configures the Deepgram client.
type Config struct {
	Host    string
	APIKey  string
	Timeout time.Duration
	Retry   retry.Policy
}

type implDeepgram struct {
	client  *prerecorded.Client
	policy  retry.Policy
	timeout time.Duration
	logger  logger.Logger
}

// New creates a Transcriber backed by the Deepgram prerecorded API.
func New(cfg Config, log logger.Logger) Transcriber {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}

	d := &implDeepgram{
		policy:  cfg.Retry,
		timeout: cfg.Timeout,
		logger:  log,
	}
	// nil when the SDK rejects the options, e.g. no key at all
	if c := listenrest.New(cfg.APIKey, &interfaces.ClientOptions{Host: host}); c != nil {
		d.client = prerecorded.New(c)
	}
	return d
}
