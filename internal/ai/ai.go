// Package ai converts raw text into structured workflow drafts using an
// external generative model. The generator is treated as unreliable and
// slow; every failure surfaces as an error, never a panic.
package ai

import "context"

// DraftStep is one generated step of a workflow draft.
type DraftStep struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Role        *string `json:"role,omitempty"`
}

// Draft is the structured output of a text-to-workflow conversion.
type Draft struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Steps       []DraftStep `json:"steps"`
}

// Generator converts raw text into workflow drafts and rewrites step
// text.
type Generator interface {
	// Generate converts raw text (emails, policies, documents) into a
	// structured workflow draft.
	Generate(ctx context.Context, rawText string) (*Draft, error)
	// Rewrite rephrases step text in the requested tone.
	Rewrite(ctx context.Context, stepText, tone string) (string, error)
}
