package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Failure
	}{
		{nil, FailureNone},
		{context.DeadlineExceeded, FailureCanceled},
		{&ErrProviderUnavailable{Err: context.Canceled}, FailureCanceled},
		{&ErrRateLimit{}, FailureRateLimited},
		{fmt.Errorf("LLM generation failed: %w", &ErrProviderUnavailable{}), FailureUnavailable},
		{&ErrInvalidResponse{Err: errors.New("/questions/0/type")}, FailureMalformed},
		{&ErrMaxTokensExceeded{}, FailureTruncated},
		{&ErrRejected{Status: 401}, FailureRejected},
		{errors.New("socket closed"), FailureOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "Classify(%v)", tt.err)
	}
}

func TestHint(t *testing.T) {
	assert.Equal(t, "", Hint(nil))
	assert.Equal(t, "the question service is busy, try again in 30s",
		Hint(fmt.Errorf("wrapped: %w", &ErrRateLimit{RetryAfter: 30 * time.Second})))
	assert.Equal(t, "the question service is busy, try again shortly", Hint(&ErrRateLimit{}))
	assert.Equal(t, "the batch was too long, ask for fewer questions", Hint(&ErrMaxTokensExceeded{}))
	assert.Equal(t, "the generated batch was malformed", Hint(&ErrInvalidResponse{Err: errors.New("x")}))
	assert.Equal(t, "the question service refused the API key", Hint(&ErrRejected{Status: 403}))
	assert.Equal(t, "the question service rejected the request", Hint(&ErrRejected{Status: 400}))
	assert.Equal(t, "socket closed", Hint(errors.New("socket closed")))
}

func TestErrRateLimit_Message(t *testing.T) {
	assert.Equal(t, "rate limited: quota", (&ErrRateLimit{Err: errors.New("quota")}).Error())
	assert.Equal(t, "rate limited, retry after 2s: quota",
		(&ErrRateLimit{RetryAfter: 2 * time.Second, Err: errors.New("quota")}).Error())
}
