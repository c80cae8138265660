// Package policy evaluates offer-eligibility policy with OPA.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine gating offer issuance.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.offer_policy.decision"),
		rego.Module("offer_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input describes one offer decision.
type Input struct {
	Segment   string  `json:"segment"`
	Context   string  `json:"context"` // "chat" or "recovery"
	CartTotal float64 `json:"cart_total,omitempty"`
}

// Evaluate returns the policy decision: "allow" or "block".
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default; an empty result means the module is
		// broken, not that the offer is allowed.
		return "", fmt.Errorf("policy returned no decision")
	}

	val := results[0].Expressions[0].Value
	if s, ok := val.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("policy returned unexpected type %T", val)
}

// DefaultPolicy is the default offer policy content.
const DefaultPolicy = `
package offer_policy

default decision = "allow"

# Never mint a code without a known segment.
decision = "block" {
	input.segment == ""
}

# Recovery discounts are not worth sending for tiny carts.
decision = "block" {
	input.context == "recovery"
	input.cart_total < 25
}
`
