package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNoProvider is returned when no LLM provider is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

// ErrRateLimit is a 429 from the vendor. RetryAfter is zero when the
// vendor did not say how long to wait.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse is a reply that is not JSON or does not match the
// request schema. Content keeps the raw reply for the event log.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("malformed reply: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable is a vendor outage, a 5xx or a transport failure.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider unavailable: %v", e.Err)
	}
	return "provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected is a 4xx other than 429: a bad key, an unknown model or a
// request the vendor refuses. Sending it again cannot succeed.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("request rejected (%d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is a reply cut off at Request.MaxTokens. A batch
// asked for too many questions for the token budget.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "reply truncated at the token limit"
}

// Failure names the kind of error a Generate call ended with.
type Failure string

const (
	FailureNone        Failure = ""
	FailureCanceled    Failure = "canceled"
	FailureRateLimited Failure = "rate-limited"
	FailureUnavailable Failure = "unavailable"
	FailureMalformed   Failure = "malformed"
	FailureTruncated   Failure = "truncated"
	FailureRejected    Failure = "rejected"
	FailureOther       Failure = "other"
)

// Classify maps err onto a Failure.
func Classify(err error) Failure {
	var (
		rl      *ErrRateLimit
		unavail *ErrProviderUnavailable
		inv     *ErrInvalidResponse
		maxTok  *ErrMaxTokensExceeded
		rej     *ErrRejected
	)
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FailureCanceled
	case errors.As(err, &maxTok):
		return FailureTruncated
	case errors.As(err, &inv):
		return FailureMalformed
	case errors.As(err, &rej):
		return FailureRejected
	case errors.As(err, &rl):
		return FailureRateLimited
	case errors.As(err, &unavail):
		return FailureUnavailable
	}
	return FailureOther
}

// Hint explains err in terms a student can act on. Errors outside the
// llm taxonomy are returned as is.
func Hint(err error) string {
	switch Classify(err) {
	case FailureNone:
		return ""
	case FailureCanceled:
		return "the request took too long"
	case FailureRateLimited:
		var rl *ErrRateLimit
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			return fmt.Sprintf("the question service is busy, try again in %s", rl.RetryAfter.Round(time.Second))
		}
		return "the question service is busy, try again shortly"
	case FailureUnavailable:
		return "the question service is unreachable"
	case FailureMalformed:
		return "the generated batch was malformed"
	case FailureTruncated:
		return "the batch was too long, ask for fewer questions"
	case FailureRejected:
		var rej *ErrRejected
		if errors.As(err, &rej) && (rej.Status == http.StatusUnauthorized || rej.Status == http.StatusForbidden) {
			return "the question service refused the API key"
		}
		return "the question service rejected the request"
	}
	return err.Error()
}
