package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
	"github.com/nguyentantai21042004/course-scribe/internal/logger"
)

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKeys         []string
	Model           string
	MaxOutputTokens int32
	Timeout         time.Duration
}

type implGemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	maxTokens  int32
	timeout    time.Duration
	logger     logger.Logger
}

// NewGemini creates a Client that rotates through the supplied Gemini API keys
// when one is rate limited.
func NewGemini(cfg GeminiConfig, log logger.Logger) (Client, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("gemini: at least one API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implGemini{
		apiKeys:   cfg.APIKeys,
		model:     model,
		maxTokens: cfg.MaxOutputTokens,
		timeout:   cfg.Timeout,
		logger:    log,
	}, nil
}

// Generate sends the request to Gemini. A rate-limited key is rotated out and
// the next key tried; other errors are returned for the caller's retry policy.
func (g *implGemini) Generate(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}

	genCfg := &genai.GenerateContentConfig{}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}
	if g.maxTokens > 0 {
		genCfg.MaxOutputTokens = g.maxTokens
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key, idx := g.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
		if err != nil {
			err = statusError(err)
			if isRateLimited(err) && attempts > 1 {
				g.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var sb strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		}

		return "", apperrors.Malformed("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// statusError lifts the HTTP code out of a Gemini API error so that retry
// classification reads the code instead of the message text.
func statusError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code == 0 {
		return err
	}
	body := apiErr.Message
	if apiErr.Status != "" {
		body = apiErr.Status + ": " + body
	}
	return &apperrors.StatusError{Service: "gemini", StatusCode: apiErr.Code, Body: body}
}

func isRateLimited(err error) bool {
	var se *apperrors.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == 429
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (g *implGemini) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

func (g *implGemini) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}
