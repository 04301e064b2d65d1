package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemas compiles each Schema once. Schemas are package-level values, so
// the name is a stable cache key.
var schemas = &schemaRegistry{compiled: make(map[string]*jsonschema.Schema)}

type schemaRegistry struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

func (r *schemaRegistry) get(s *Schema) (*jsonschema.Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.compiled[s.Name]; ok {
		return c, nil
	}

	// The compiler wants the decoded document, not a Go map with typed
	// slices, so round-trip the definition through JSON.
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	url := "mem://schemas/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	r.compiled[s.Name] = compiled
	return compiled, nil
}

// ValidateJSON checks raw against s and accepts anything when s is nil.
// Every failure is an *ErrInvalidResponse. A schema violation names the
// first offending location, e.g. "/questions/2/type".
func ValidateJSON(s *Schema, raw json.RawMessage) error {
	if s == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := schemas.get(s)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", s.Name, err)}
	}

	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ErrInvalidResponse{
				Content: raw,
				Err:     fmt.Errorf("%s: %s does not match: %w", s.Name, firstLocation(verr), err),
			}
		}
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}

// firstLocation follows the first cause down to the innermost error.
func firstLocation(e *jsonschema.ValidationError) string {
	for len(e.Causes) > 0 {
		e = e.Causes[0]
	}
	return "/" + strings.Join(e.InstanceLocation, "/")
}
