package flows

import (
	"context"
	"fmt"
	"slices"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
)

// GameIDs is the closed set of activity modules the client can render.
// Each ID maps to a swappable activity component on the client side.
var GameIDs = []string{"breathing", "gratitude", "shooter", "balloon", "reaction", "memory"}

// GameInput keys a game suggestion on the current mood.
type GameInput struct {
	Mood     string `json:"mood"`
	Language string `json:"language,omitempty"`
}

// GameSuggestion is one suggested activity.
type GameSuggestion struct {
	GameID      string `json:"gameId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const gamePrompt = `You are MindEaseAI, an empathetic AI wellness companion for youth.

Your task is to recommend a simple, calming game based on the user's current mood.
The available games are:
- 'breathing': A guided breathing exercise. Good for moods like 'anxious', 'stressed'.
- 'gratitude': A gratitude wall exercise. Good for moods like 'sad', 'low'.
- 'shooter': A fast-paced target shooting game. Good for 'angry', 'stressed'.
- 'balloon': A gentle balloon popping game. Good for 'sad', 'bored'.
- 'reaction': A simple reaction time test. Good for 'tired', 'unfocused'.
- 'memory': A classic card matching game. Good for 'happy', 'calm', 'neutral'.

Based on the user's mood, select one game ID and provide a title and a short, encouraging description for it in the specified language.

User Mood: {{.Mood}}
Language: {{.Language}}`

func gameSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"gameId":      {Type: genai.TypeString, Description: "The ID of the suggested game.", Enum: GameIDs},
			"title":       {Type: genai.TypeString, Description: "The title of the suggested game."},
			"description": {Type: genai.TypeString, Description: "A brief, encouraging description of the game and why it might help."},
		},
		Required: []string{"gameId", "title", "description"},
	}
}

// SuggestGame recommends one activity for the given mood. A gameId outside
// the closed set is a schema violation and fails the flow.
func (s *Service) SuggestGame(ctx context.Context, in GameInput) (GameSuggestion, error) {
	if in.Mood == "" {
		return GameSuggestion{}, fmt.Errorf("mood is required")
	}

	d := flow.Descriptor{
		Name:   "getGameSuggestion",
		Model:  s.models.Chat,
		Prompt: gamePrompt,
		Schema: gameSchema(),
	}
	in.Language = language(in.Language)
	out, err := flow.Run[GameSuggestion](ctx, s.client, d, in)
	if err != nil {
		return GameSuggestion{}, err
	}
	if !slices.Contains(GameIDs, out.GameID) {
		return GameSuggestion{}, fmt.Errorf("flow getGameSuggestion: model returned unknown gameId %q", out.GameID)
	}
	return out, nil
}
