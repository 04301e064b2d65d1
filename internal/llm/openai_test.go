package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("newOpenAIProviderRaw: %v", err)
	}
	return p
}

func chatCompletion(content, finishReason string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": finishReason,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func TestOpenAIProvider_Batch(t *testing.T) {
	var sent struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(
			`{"questions":[{"type":"multiple_choice","prompt":"Which organelle makes ATP?"}]}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), batchRequest())
	require.NoError(t, err)

	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, "gpt-4o-mini", sent.Model)
	assert.Equal(t, "json_schema", sent.ResponseFormat.Type)
	assert.Equal(t, "answer-batch", sent.ResponseFormat.JSONSchema.Name)
	assert.True(t, sent.ResponseFormat.JSONSchema.Strict)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, "system", sent.Messages[0].Role)
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":[{"prompt":"Wha`, "length"))
	})

	_, err := p.Generate(context.Background(), batchRequest())
	assert.Equal(t, FailureTruncated, Classify(err))
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		reply := chatCompletion("", "stop")
		reply["choices"] = []map[string]any{}
		json.NewEncoder(w).Encode(reply)
	})

	_, err := p.Generate(context.Background(), batchRequest())
	assert.Equal(t, FailureMalformed, Classify(err))
}

func TestOpenAIProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Failure
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","code":"rate_limit_exceeded"}}`, FailureRateLimited},
		{"bad key", http.StatusUnauthorized, `{"error":{"message":"invalid key","code":"invalid_api_key"}}`, FailureRejected},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"schema not supported"}}`, FailureRejected},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, FailureUnavailable},
		// A gateway page that is not JSON arrives as a request error.
		{"gateway page", http.StatusBadGateway, `<html>bad gateway</html>`, FailureUnavailable},
		{"gateway page with 403", http.StatusForbidden, `<html>forbidden</html>`, FailureRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := p.Generate(context.Background(), batchRequest())
			require.Error(t, err)
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestOpenAIProvider_RateLimitRetried(t *testing.T) {
	var calls atomic.Int32
	inner := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"slow down"}}`))
			return
		}
		json.NewEncoder(w).Encode(chatCompletion(`{"questions":[]}`, "stop"))
	})
	p := WithRetry(inner, retryConfig(), quietLogger())

	resp, err := p.Generate(context.Background(), batchRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions":[]}`, string(resp.Content))
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	assert.Error(t, err)
}
