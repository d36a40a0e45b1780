package flows

import (
	"context"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/safety"
)

// MoodInput is free text the user wrote about how they feel.
type MoodInput struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// MoodResult is the detected mood plus an empathetic reply.
type MoodResult struct {
	Mood     string `json:"mood"`
	Response string `json:"response"`
}

const moodPrompt = `You are MindEaseAI, an empathetic AI wellness companion for youth (ages 13-25).

A user has provided the following text input:
{{.Text}}

Detect the user's mood from the text input. Provide an empathetic and supportive response in {{.Language}}. The response should:
1. Acknowledge the user's feelings.
2. Offer a brief coping tip, mindfulness exercise, or creative prompt.
3. Be encouraging and supportive.

Ensure that the response is appropriate for a young audience and avoids any harmful or unethical content.`

func moodSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mood":     {Type: genai.TypeString, Description: "The detected mood of the user."},
			"response": {Type: genai.TypeString, Description: "An empathetic and supportive response."},
		},
		Required: []string{"mood", "response"},
	}
}

// DetectMood classifies the user's mood from free text and produces a
// supportive reply. Crisis-flagged text is never dispatched to the AI
// service; the caller receives safety.ErrCrisis instead.
func (s *Service) DetectMood(ctx context.Context, in MoodInput) (MoodResult, error) {
	if in.Text == "" {
		return MoodResult{}, fmt.Errorf("text is required")
	}
	if safety.IsCrisis(in.Text) {
		return MoodResult{}, safety.ErrCrisis
	}

	d := flow.Descriptor{
		Name:   "detectMoodAndRespond",
		Model:  s.models.Chat,
		Prompt: moodPrompt,
		Schema: moodSchema(),
	}
	in.Language = language(in.Language)
	return flow.Run[MoodResult](ctx, s.client, d, in)
}
