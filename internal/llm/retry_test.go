package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var malformedBatch = MockResponse{Content: json.RawMessage(`{"questions":[{"type":"essay","prompt":"x"}]}`)}

func TestRetry_MalformedBatchRetriedOnce(t *testing.T) {
	m := NewMockProvider(malformedBatch, batch("Define osmosis."))
	p := WithRetry(m, retryConfig(), quietLogger())

	resp, err := p.Generate(context.Background(), Request{Schema: answerSchema})
	require.NoError(t, err)
	assert.Contains(t, string(resp.Content), "osmosis")
	assert.Equal(t, 2, m.CallCount())
}

func TestRetry_MalformedBatchTwiceFails(t *testing.T) {
	m := NewMockProvider(malformedBatch, malformedBatch, batch("never reached"))
	p := WithRetry(m, retryConfig(), quietLogger())

	_, err := p.Generate(context.Background(), Request{Schema: answerSchema})
	var inv *ErrInvalidResponse
	require.True(t, errors.As(err, &inv), "got %T", err)
	assert.Equal(t, 2, m.CallCount())
}

func TestRetry_RejectedNotRetried(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrRejected{Status: 401}}, batch("never reached"))
	p := WithRetry(m, retryConfig(), quietLogger())

	_, err := p.Generate(context.Background(), Request{Schema: answerSchema})
	assert.Equal(t, FailureRejected, Classify(err))
	assert.Equal(t, 1, m.CallCount())
}

func TestRetry_TruncatedBatchNotRetried(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"questions":[`)}})
	p := WithRetry(m, retryConfig(), quietLogger())

	_, err := p.Generate(context.Background(), Request{Schema: answerSchema})
	var maxTok *ErrMaxTokensExceeded
	require.True(t, errors.As(err, &maxTok))
	assert.Equal(t, 1, m.CallCount())
}

func TestRetry_OutagesThenBatch(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrRateLimit{}},
		batch("Name the powerhouse of the cell."),
	)
	p := WithRetry(m, retryConfig(), quietLogger())

	_, err := p.Generate(context.Background(), Request{Schema: answerSchema})
	require.NoError(t, err)
	assert.Equal(t, 3, m.CallCount())
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	m := NewMockProvider().Otherwise(func(Request) MockResponse {
		return MockResponse{Err: &ErrProviderUnavailable{}}
	})
	p := WithRetry(m, retryConfig(), quietLogger())

	_, err := p.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail))
	assert.Equal(t, 3, m.CallCount())
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: 30 * time.Millisecond}}, batch())
	p := WithRetry(m, retryConfig(), quietLogger())

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{Schema: answerSchema})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	m := NewMockProvider().Otherwise(func(Request) MockResponse {
		return MockResponse{Err: &ErrRateLimit{RetryAfter: time.Hour}}
	})
	p := WithRetry(m, retryConfig(), quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, m.CallCount())
}

func TestRetry_ModelID(t *testing.T) {
	assert.Equal(t, "mock", WithRetry(NewMockProvider(), retryConfig(), quietLogger()).ModelID())
}

func TestRetry_LogsEachRetry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	m := NewMockProvider(malformedBatch, batch("Define osmosis."))
	p := WithRetry(m, retryConfig(), logger)

	ctx := WithPurpose(context.Background(), PurposeBankExpand)
	_, err := p.Generate(ctx, Request{Schema: answerSchema})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "retrying generation")
	assert.Contains(t, out, "purpose=bank-expand")
	assert.Contains(t, out, "failure=malformed")
	assert.Equal(t, 1, strings.Count(out, "retrying generation"))
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}})
	p := WithRetry(m, RetryConfig{}, quietLogger())

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, m.CallCount())
}
