package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const sopPrompt = `You are an enterprise workflow and SOP (Standard Operating Procedure) assistant.
Your job is to convert raw text (emails, policies, documents) into clear, structured workflows.

Requirements:
1. Extract key steps from the text
2. Order steps logically
3. Assign roles/departments where mentioned
4. Each step should be: title (short), description (detailed), role (optional)
5. Return ONLY valid JSON, no markdown
6. No extra text before or after JSON

JSON Format:
{
  "title": "Workflow Name",
  "description": "Brief workflow description",
  "steps": [
    {
      "title": "Step title",
      "description": "What to do and why",
      "role": "Department/Role or null"
    }
  ]
}`

var toneInstructions = map[string]string{
	"clear_enterprise": "Rewrite to be professional, clear, and actionable",
	"technical":        "Rewrite with technical details and precision",
	"simple":           "Rewrite in simple, non-technical language",
}

// GeminiClient is a Generator backed by the Gemini REST API.
type GeminiClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGeminiClient creates a client for the given API key and model.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewGeminiClientWithBaseURL is used by tests to point the client at a
// stub server.
func NewGeminiClientWithBaseURL(baseURL, apiKey, model string) *GeminiClient {
	c := NewGeminiClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

// Generate converts raw text into a structured workflow draft.
func (c *GeminiClient) Generate(ctx context.Context, rawText string) (*Draft, error) {
	prompt := fmt.Sprintf("%s\n\nConvert this to a workflow:\n\n%s", sopPrompt, rawText)
	content, err := c.generateContent(ctx, prompt, 0.2, 2000)
	if err != nil {
		return nil, err
	}

	var draft Draft
	if err := json.Unmarshal([]byte(stripFences(content)), &draft); err != nil {
		return nil, fmt.Errorf("invalid JSON response from model: %w", err)
	}
	return &draft, nil
}

// Rewrite rephrases step text in the requested tone.
func (c *GeminiClient) Rewrite(ctx context.Context, stepText, tone string) (string, error) {
	instruction, ok := toneInstructions[tone]
	if !ok {
		instruction = toneInstructions["clear_enterprise"]
	}
	prompt := fmt.Sprintf("%s. Keep it concise (1-2 sentences).\n\n%s", instruction, stepText)
	return c.generateContent(ctx, prompt, 0.3, 500)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) generateContent(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
			TopP:            0.9,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model request failed: status code %d", resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no candidates")
	}
	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}

// stripFences removes markdown code fences the model sometimes wraps
// around its JSON despite instructions.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}
