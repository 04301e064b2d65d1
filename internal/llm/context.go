package llm

import (
	"context"
	"fmt"
)

// Purpose labels why a request was made. It is stored with every event so
// `practiz llm list --purpose` and `llm stats` can group calls.
type Purpose string

const (
	// PurposeBankExpand is a batch generated with `practiz bank expand`.
	PurposeBankExpand Purpose = "bank-expand"

	// PurposeSessionExpand is a batch requested from inside a practice
	// session.
	PurposeSessionExpand Purpose = "session-expand"

	// PurposePreview is a batch generated by `practiz preview`.
	PurposePreview Purpose = "preview"

	// PurposeUnknown is recorded when the caller did not set a purpose.
	PurposeUnknown Purpose = "unknown"
)

// Purposes lists every purpose practiz records.
var Purposes = []Purpose{PurposeBankExpand, PurposeSessionExpand, PurposePreview, PurposeUnknown}

// ParsePurpose returns the Purpose named s.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range Purposes {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown purpose %q (want one of %v)", s, Purposes)
}

type purposeKey struct{}

// WithPurpose attaches p to ctx. An inner call overrides an outer one.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose attached to ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}

// DefaultPurpose attaches p unless ctx already carries a purpose.
func DefaultPurpose(ctx context.Context, p Purpose) context.Context {
	if _, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return ctx
	}
	return WithPurpose(ctx, p)
}
