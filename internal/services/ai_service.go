package services

import (
	"context"
	"strings"

	"workflow-copilot/backend/internal/ai"
)

// AIService turns raw text into persisted workflows. Persistence goes
// through the mutation orchestrator, never straight to the store, so
// converted workflows get the same validation and audit trail as
// hand-made ones.
type AIService struct {
	generator ai.Generator
	workflows *WorkflowService
	steps     *StepService
}

// NewAIService creates a new AIService.
func NewAIService(generator ai.Generator, workflows *WorkflowService, steps *StepService) *AIService {
	return &AIService{generator: generator, workflows: workflows, steps: steps}
}

// ConvertResult reports a persisted conversion.
type ConvertResult struct {
	WorkflowID   string `json:"workflow_id"`
	StepsCreated int    `json:"steps_created"`
}

// Convert produces a structured draft without persisting it.
func (s *AIService) Convert(ctx context.Context, rawText string) (*ai.Draft, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, invalidf("raw_text is required")
	}
	draft, err := s.generator.Generate(ctx, rawText)
	if err != nil {
		return nil, generationFailure(err)
	}
	return draft, nil
}

// ConvertAndSave converts raw text and persists the result as a draft
// workflow with pending steps in generated order. A non-empty title
// overrides the generated one.
func (s *AIService) ConvertAndSave(ctx context.Context, rawText, title string, organizationID *string, actorID string) (*ConvertResult, error) {
	draft, err := s.Convert(ctx, rawText)
	if err != nil {
		return nil, err
	}
	if title != "" {
		draft.Title = title
	}

	wf, err := s.workflows.Create(ctx, CreateWorkflowInput{
		Title:          draft.Title,
		Description:    draft.Description,
		OrganizationID: organizationID,
	}, actorID)
	if err != nil {
		return nil, err
	}

	for i, ds := range draft.Steps {
		order := i
		_, err := s.steps.Create(ctx, CreateStepInput{
			WorkflowID:  wf.ID,
			Title:       ds.Title,
			Description: ds.Description,
			Role:        ds.Role,
			Order:       &order,
		}, actorID)
		if err != nil {
			return nil, err
		}
	}

	return &ConvertResult{WorkflowID: wf.ID, StepsCreated: len(draft.Steps)}, nil
}

// Rewrite rephrases step text in the requested tone.
func (s *AIService) Rewrite(ctx context.Context, stepText, tone string) (string, error) {
	if strings.TrimSpace(stepText) == "" {
		return "", invalidf("step_text is required")
	}
	rewritten, err := s.generator.Rewrite(ctx, stepText, tone)
	if err != nil {
		return "", generationFailure(err)
	}
	return rewritten, nil
}
