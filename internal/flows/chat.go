package flows

import (
	"context"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/safety"
)

// ChatInput is one user message plus the page-local transcript so far.
type ChatInput struct {
	Text     string      `json:"text"`
	Language string      `json:"language,omitempty"`
	History  []flow.Turn `json:"history,omitempty"`
}

// ChatResult is the counselor's reply.
type ChatResult struct {
	Response string `json:"response"`
}

const chatPrompt = `You are a highly skilled psychiatrist and an empathetic AI wellness companion for youth (ages 13-25). Your name is MindEaseAI.

A user has sent the following message:
"{{.Text}}"

Your task is to respond as a compassionate, professional psychiatrist.
1. Acknowledge and validate the user's feelings.
2. If the user is describing a problem, gently guide them to explore their thoughts and feelings more deeply. Ask open-ended questions.
3. If appropriate, offer evidence-based coping strategies, mindfulness exercises, or principles from Cognitive Behavioral Therapy (CBT).
4. Maintain a supportive, non-judgmental, and encouraging tone.
5. Ensure your response is safe, ethical, and appropriate for a young audience.
6. Keep your responses concise and easy to understand, typically 2-4 sentences.
7. Respond in the user's specified language: {{.Language}}.`

func chatSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response": {Type: genai.TypeString, Description: "An empathetic and supportive response from the AI counselor."},
		},
		Required: []string{"response"},
	}
}

// CounselorChat produces the next counselor reply for a chat transcript.
// Crisis-flagged text short-circuits with safety.ErrCrisis before any AI
// call is made.
func (s *Service) CounselorChat(ctx context.Context, in ChatInput) (ChatResult, error) {
	if in.Text == "" {
		return ChatResult{}, fmt.Errorf("text is required")
	}
	if safety.IsCrisis(in.Text) {
		return ChatResult{}, safety.ErrCrisis
	}

	d := flow.Descriptor{
		Name:   "counselorChat",
		Model:  s.models.Chat,
		Prompt: chatPrompt,
		Schema: chatSchema(),
	}
	history := in.History
	in.Language = language(in.Language)
	return flow.RunConversation[ChatResult](ctx, s.client, d, in, history)
}
