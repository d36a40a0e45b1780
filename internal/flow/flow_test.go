package flow

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/youthmind/youthmind/internal/genai"
)

// mockCaller records requests and plays back canned responses.
type mockCaller struct {
	calls    int
	lastReq  genai.GenerateRequest
	response *genai.GenerateResponse
	err      error
}

func (m *mockCaller) GenerateContent(_ context.Context, model string, req genai.GenerateRequest) (*genai.GenerateResponse, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func textResponse(s string) *genai.GenerateResponse {
	return &genai.GenerateResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Role: "model", Parts: []genai.Part{{Text: s}}},
	}}}
}

var testDescriptor = Descriptor{
	Name:   "testFlow",
	Model:  "test-model",
	Prompt: "User mood: {{.Mood}}. Respond in {{.Language}}.",
	Schema: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"answer": {Type: genai.TypeString},
		},
		Required: []string{"answer"},
	},
}

type testInput struct {
	Mood     string
	Language string
}

type testOutput struct {
	Answer string `json:"answer"`
}

func TestRunRendersPromptAndSchema(t *testing.T) {
	m := &mockCaller{response: textResponse(`{"answer":"ok"}`)}

	out, err := Run[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "calm", Language: "en"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "ok" {
		t.Errorf("answer = %q, want ok", out.Answer)
	}

	gotPrompt := m.lastReq.Contents[0].Parts[0].Text
	if !strings.Contains(gotPrompt, "User mood: calm") || !strings.Contains(gotPrompt, "Respond in en") {
		t.Errorf("rendered prompt = %q", gotPrompt)
	}
	if m.lastReq.GenerationConfig == nil || m.lastReq.GenerationConfig.ResponseSchema != testDescriptor.Schema {
		t.Error("output schema was not attached to the request")
	}
	if m.lastReq.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("response mime = %q", m.lastReq.GenerationConfig.ResponseMIMEType)
	}
}

// A syntactically valid response must pass through unchanged.
func TestRunIdentity(t *testing.T) {
	m := &mockCaller{response: textResponse(`{"answer":"exact value, untouched"}`)}

	out, err := Run[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "happy", Language: "hi"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Answer != "exact value, untouched" {
		t.Errorf("output mutated: %q", out.Answer)
	}
}

func TestRunEmptyOutputFails(t *testing.T) {
	cases := []struct {
		name string
		resp *genai.GenerateResponse
	}{
		{"no candidates", &genai.GenerateResponse{}},
		{"empty text", textResponse("")},
		{"whitespace only", textResponse("  \n ")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockCaller{response: tc.resp}
			_, err := Run[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "x", Language: "en"})
			if err == nil {
				t.Fatal("expected error for empty model output")
			}
			if !strings.Contains(err.Error(), ErrNoOutput.Error()) {
				t.Errorf("error = %v, want wrapped ErrNoOutput", err)
			}
		})
	}
}

func TestRunMalformedOutputFails(t *testing.T) {
	m := &mockCaller{response: textResponse(`{"answer":`)}
	_, err := Run[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "x", Language: "en"})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRunUpstreamErrorPropagates(t *testing.T) {
	m := &mockCaller{err: fmt.Errorf("boom")}
	_, err := Run[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "x", Language: "en"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("error = %v, want wrapped upstream error", err)
	}
}

func TestRunMissingTemplateField(t *testing.T) {
	m := &mockCaller{response: textResponse(`{"answer":"ok"}`)}
	d := testDescriptor
	d.Prompt = "needs {{.Missing}}"

	_, err := Run[testOutput](context.Background(), m, d, map[string]any{"Mood": "x"})
	if err == nil {
		t.Fatal("expected input validation error")
	}
	if m.calls != 0 {
		t.Errorf("AI called %d times despite invalid input, want 0", m.calls)
	}
}

func TestRunConversationHistoryOrdering(t *testing.T) {
	m := &mockCaller{response: textResponse(`{"answer":"ok"}`)}
	history := []Turn{
		{Role: "user", Text: "first"},
		{Role: "model", Text: "second"},
	}

	_, err := RunConversation[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "x", Language: "en"}, history)
	if err != nil {
		t.Fatalf("RunConversation: %v", err)
	}

	if len(m.lastReq.Contents) != 3 {
		t.Fatalf("contents = %d, want 3 (2 history + 1 prompt)", len(m.lastReq.Contents))
	}
	if m.lastReq.Contents[0].Parts[0].Text != "first" || m.lastReq.Contents[0].Role != "user" {
		t.Errorf("history[0] = %+v", m.lastReq.Contents[0])
	}
	if m.lastReq.Contents[1].Parts[0].Text != "second" || m.lastReq.Contents[1].Role != "model" {
		t.Errorf("history[1] = %+v", m.lastReq.Contents[1])
	}
}

func TestRunMediaPrecedesPrompt(t *testing.T) {
	m := &mockCaller{response: textResponse(`{"answer":"ok"}`)}
	media := genai.MediaPart("image/png", "QUFB")

	_, err := Run[testOutput](context.Background(), m, testDescriptor, testInput{Mood: "x", Language: "en"}, media)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	parts := m.lastReq.Contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if parts[0].InlineData == nil {
		t.Error("media part must precede the instruction text")
	}
	if parts[1].Text == "" {
		t.Error("instruction text missing")
	}
}
