package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Bank is the on-disk exchange format for a course's question bank.
type Bank struct {
	Course    Course     `json:"course"`
	Questions []Question `json:"questions"`
}

// DecodeBank reads a bank from JSON. Questions without a course id inherit
// the bank's course. Every question is validated and all problems are
// reported together.
func DecodeBank(r io.Reader) (*Bank, error) {
	var b Bank
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}

	if err := ValidateCourse(b.Course); err != nil {
		return nil, err
	}

	var errs []error
	seen := make(map[string]bool, len(b.Questions))
	for i := range b.Questions {
		q := &b.Questions[i]
		if q.CourseID == "" {
			q.CourseID = b.Course.ID
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Errorf("duplicate question id %q", q.ID))
			continue
		}
		seen[q.ID] = true
		if err := ValidateQuestion(*q); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &b, nil
}

// EncodeBank writes a bank as indented JSON.
func EncodeBank(w io.Writer, b *Bank) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode bank: %w", err)
	}
	return nil
}
