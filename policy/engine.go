// Package policy decides which execution metadata fields are redacted
// before they reach the dashboard.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// RedactedPlaceholder replaces metadata values the policy flags.
const RedactedPlaceholder = "[redacted]"

// Engine is the OPA redaction engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new redaction engine with the given rego policy.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.redaction.redact"),
		rego.Module("redaction.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Redact reports whether the metadata key's value must be masked.
// Evaluation errors fail closed: a key the policy cannot judge is
// treated as sensitive.
func (e *Engine) Redact(ctx context.Context, key string) bool {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]any{"key": key}))
	if err != nil {
		return true
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false
	}
	decision, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return true
	}
	return decision
}

// Apply returns a copy of metadata with flagged values replaced by
// RedactedPlaceholder. A nil map passes through unchanged.
func (e *Engine) Apply(ctx context.Context, metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if e.Redact(ctx, k) {
			out[k] = RedactedPlaceholder
		} else {
			out[k] = v
		}
	}
	return out
}

// DefaultPolicy is the default redaction policy: any metadata key that
// contains a credential-ish substring is masked.
const DefaultPolicy = `
package redaction

default redact = false

sensitive = {"api_key", "apikey", "authorization", "secret", "token", "password"}

redact {
	s := sensitive[_]
	contains(lower(input.key), s)
}
`
