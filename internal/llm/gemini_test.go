package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	apperrors "github.com/nguyentantai21042004/course-scribe/internal/errors"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		transient   bool
		rateLimited bool
	}{
		{
			name:      "unavailable with 400 in details",
			err:       genai.APIError{Code: 503, Message: "overloaded", Status: "UNAVAILABLE", Details: []map[string]any{{"retryDelay": "400ms"}}},
			wantCode:  503,
			transient: true,
		},
		{
			name:        "quota mentioning limit 400",
			err:         genai.APIError{Code: 429, Message: "Quota exceeded, limit: 400", Status: "RESOURCE_EXHAUSTED"},
			wantCode:    429,
			transient:   true,
			rateLimited: true,
		},
		{
			name:     "bad key",
			err:      fmt.Errorf("call: %w", genai.APIError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"}),
			wantCode: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := statusError(tt.err)

			var se *apperrors.StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "gemini", se.Service)
			assert.Equal(t, tt.wantCode, se.StatusCode)
			assert.Equal(t, tt.transient, apperrors.IsTransient(fmt.Errorf("generate content: %w", err)))
			assert.Equal(t, tt.rateLimited, isRateLimited(err))
		})
	}
}

func TestStatusErrorPassesOtherErrors(t *testing.T) {
	err := errors.New("dial tcp: connection refused")
	assert.Same(t, err, statusError(err))
	assert.False(t, isRateLimited(err))
}
