package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/community-resources/backend/pkg/config"
)

func TestNewClient_MissingAPIKeyFailsFast(t *testing.T) {
	_, err := NewClient(config.LLMConfig{Model: "gpt-4o-mini"})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(config.LLMConfig{APIKey: "test-key", Model: "gpt-4o-mini"})

	require.NoError(t, err)
	assert.Equal(t, 1024, client.maxTokens)
	assert.Equal(t, 8, cap(client.sem))
}

func TestTranslateError_APIErrorCarriesStatus(t *testing.T) {
	err := translateError(&openai.APIError{
		HTTPStatusCode: http.StatusTooManyRequests,
		Message:        "rate limit exceeded",
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, "rate limit exceeded", upstream.Message)
}

func TestTranslateError_TimeoutIsGatewayTimeout(t *testing.T) {
	err := translateError(context.DeadlineExceeded)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusGatewayTimeout, upstream.StatusCode)
}

func TestTranslateError_UnknownErrorIsBadGateway(t *testing.T) {
	err := translateError(errors.New("connection refused"))

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
}
