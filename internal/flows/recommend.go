package flows

import (
	"context"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
)

// RecommendInput keys a mood-driven suggestion.
type RecommendInput struct {
	Mood     string `json:"mood"`
	Language string `json:"language,omitempty"`
}

// Recommendation is one short mood-tailored suggestion.
type Recommendation struct {
	Recommendation string `json:"recommendation"`
}

// JournalPrompt is one creative journaling prompt.
type JournalPrompt struct {
	Prompt string `json:"prompt"`
}

const recommendPrompt = `You are MindEaseAI, an empathetic AI wellness companion for youth.

Based on the user's mood, provide a personalized recommendation for a coping tip, mindfulness exercise, or creative prompt.
Respond in the user's specified language: {{.Language}}.

User Mood: {{.Mood}}`

const musicPrompt = `You are MindEaseAI, an empathetic AI wellness companion for youth.

Based on the user's mood, provide a music recommendation.
The recommendation should be a short sentence suggesting a genre or style of music.
Respond in the user's selected language: {{.Language}}.

User Mood: {{.Mood}}`

const journalPrompt = `You are a creative writing assistant that helps users express their feelings through journaling.

Generate a creative journaling prompt tailored to the user's mood, which is: {{.Mood}}.
Respond in the user's selected language: {{.Language}}.

The prompt should encourage self-reflection and emotional expression.
The prompt should be no more than two sentences long.`

func recommendationSchema(desc string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recommendation": {Type: genai.TypeString, Description: desc},
		},
		Required: []string{"recommendation"},
	}
}

func journalSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"prompt": {Type: genai.TypeString, Description: "A creative journaling prompt."},
		},
		Required: []string{"prompt"},
	}
}

// Recommend suggests a coping tip, mindfulness exercise, or creative prompt
// for the given mood.
func (s *Service) Recommend(ctx context.Context, in RecommendInput) (Recommendation, error) {
	if in.Mood == "" {
		return Recommendation{}, fmt.Errorf("mood is required")
	}
	d := flow.Descriptor{
		Name:   "personalizedRecommendations",
		Model:  s.models.Chat,
		Prompt: recommendPrompt,
		Schema: recommendationSchema("A personalized recommendation for the user based on their mood."),
	}
	in.Language = language(in.Language)
	return flow.Run[Recommendation](ctx, s.client, d, in)
}

// RecommendMusic suggests a music genre or style for the given mood.
func (s *Service) RecommendMusic(ctx context.Context, in RecommendInput) (Recommendation, error) {
	if in.Mood == "" {
		return Recommendation{}, fmt.Errorf("mood is required")
	}
	d := flow.Descriptor{
		Name:   "musicRecommendation",
		Model:  s.models.Chat,
		Prompt: musicPrompt,
		Schema: recommendationSchema("A music recommendation for the user based on their mood, including genre or style."),
	}
	in.Language = language(in.Language)
	return flow.Run[Recommendation](ctx, s.client, d, in)
}

// JournalingPrompt generates a creative journaling prompt for the given mood.
func (s *Service) JournalingPrompt(ctx context.Context, in RecommendInput) (JournalPrompt, error) {
	if in.Mood == "" {
		return JournalPrompt{}, fmt.Errorf("mood is required")
	}
	d := flow.Descriptor{
		Name:   "generateJournalingPrompt",
		Model:  s.models.Chat,
		Prompt: journalPrompt,
		Schema: journalSchema(),
	}
	in.Language = language(in.Language)
	return flow.Run[JournalPrompt](ctx, s.client, d, in)
}
