// Package flow implements the generic invocation pattern shared by every
// AI feature: a declarative descriptor (name, model, prompt template,
// output schema) interpreted by one function that renders the prompt,
// calls the generative service, and decodes the structured response.
package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/youthmind/youthmind/internal/genai"
)

// Caller abstracts the generative AI client so flows can be tested against
// a mock service.
type Caller interface {
	GenerateContent(ctx context.Context, model string, req genai.GenerateRequest) (*genai.GenerateResponse, error)
}

// ErrNoOutput is returned when the model produced no usable output for a
// flow. Callers surface it as a generic failure and do not retry.
var ErrNoOutput = errors.New("model returned no output")

// Descriptor declares one flow: which model to call, the instruction
// template rendered against the flow input, and the expected output shape.
// Prompts are configuration, not code; they can be edited without touching
// the invocation machinery.
type Descriptor struct {
	Name   string
	Model  string
	Prompt string
	Schema *genai.Schema
}

// Turn is one entry of a chat transcript carried between calls. Transcripts
// live only in the caller's memory; nothing here persists them.
type Turn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Run renders the descriptor's prompt against input, invokes the model with
// the declared output schema, and decodes the JSON response into Out. Media
// parts, when present, precede the rendered instruction text.
func Run[Out any](ctx context.Context, c Caller, d Descriptor, input any, media ...genai.Part) (Out, error) {
	return RunConversation[Out](ctx, c, d, input, nil, media...)
}

// RunConversation is Run with prior transcript turns prepended to the
// request, for flows that condition on chat history.
func RunConversation[Out any](ctx context.Context, c Caller, d Descriptor, input any, history []Turn, media ...genai.Part) (Out, error) {
	var zero Out

	prompt, err := renderPrompt(d, input)
	if err != nil {
		return zero, err
	}

	parts := make([]genai.Part, 0, len(media)+1)
	parts = append(parts, media...)
	parts = append(parts, genai.TextPart(prompt))

	contents := make([]genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, genai.Content{Role: turn.Role, Parts: []genai.Part{genai.TextPart(turn.Text)}})
	}
	contents = append(contents, genai.UserContent(parts...))

	req := genai.GenerateRequest{
		Contents: contents,
		GenerationConfig: &genai.GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   d.Schema,
		},
	}

	resp, err := c.GenerateContent(ctx, d.Model, req)
	if err != nil {
		return zero, fmt.Errorf("flow %s: %w", d.Name, err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return zero, fmt.Errorf("flow %s: %w", d.Name, ErrNoOutput)
	}

	var out Out
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return zero, fmt.Errorf("flow %s: decoding model output: %w", d.Name, err)
	}
	return out, nil
}

// renderPrompt executes the descriptor's template against input. Missing
// fields are an input validation failure, reported before any AI call.
func renderPrompt(d Descriptor, input any) (string, error) {
	tmpl, err := template.New(d.Name).Option("missingkey=error").Parse(d.Prompt)
	if err != nil {
		return "", fmt.Errorf("flow %s: parsing prompt template: %w", d.Name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, input); err != nil {
		return "", fmt.Errorf("flow %s: rendering prompt: %w", d.Name, err)
	}
	return sb.String(), nil
}
