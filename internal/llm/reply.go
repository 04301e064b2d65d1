package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// finishReply turns a vendor reply into a Response. A truncated reply is
// never validated since a half-written batch cannot match its schema.
func finishReply(req Request, content json.RawMessage, truncated bool, model string, usage Usage) (*Response, error) {
	if truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if req.Schema != nil {
		if err := ValidateJSON(req.Schema, content); err != nil {
			return nil, err
		}
	}
	return &Response{
		Content: content,
		Usage:   usage,
		Model:   model,
	}, nil
}

// statusError maps a failed vendor call onto the llm error taxonomy.
// status is zero when the call never got an HTTP reply.
func statusError(status int, header http.Header, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(header, time.Now()), Err: err}
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusUnprocessableEntity:
		return &ErrRejected{Status: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// retryAfter reads a Retry-After header given either in seconds or as an
// HTTP date. Anything unreadable or already past is zero.
func retryAfter(header http.Header, now time.Time) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}
	return 0
}

// tokenUsage builds a Usage, summing the total when the vendor omits it.
func tokenUsage(in, out, total int) Usage {
	if total == 0 {
		total = in + out
	}
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: total}
}

func missingContent(vendor string) error {
	return &ErrInvalidResponse{Err: fmt.Errorf("%s reply had no text", vendor)}
}
