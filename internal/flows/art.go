package flows

import (
	"context"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/safety"
)

// ArtInput describes the mood art the user wants to see.
type ArtInput struct {
	Mood     string `json:"mood"`
	Prompt   string `json:"prompt"`
	Language string `json:"language,omitempty"`
}

// ArtResult points at a royalty-free image matching the mood.
type ArtResult struct {
	ImageURL string `json:"imageUrl"`
	AltText  string `json:"altText"`
}

const artPrompt = `Find a royalty-free image from Unsplash that visually represents the feeling of '{{.Mood}}' combined with the creative direction: '{{.Prompt}}'.

Your response must be a JSON object containing the direct image URL and descriptive alt text.
IMPORTANT: The imageUrl must be a direct, valid, and publicly accessible link to an image file (e.g., ending in .jpg or from images.unsplash.com), not a link to a webpage.
The image URL must be in the format: https://images.unsplash.com/photo-<PHOTO_ID>?...`

func artSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"imageUrl": {Type: genai.TypeString, Description: "The URL of a relevant, royalty-free image from Unsplash."},
			"altText":  {Type: genai.TypeString, Description: "A descriptive alt text for the image."},
		},
		Required: []string{"imageUrl", "altText"},
	}
}

// MoodArt finds an image matching the mood and the user's creative
// direction. The free-text prompt passes through the crisis gate first.
func (s *Service) MoodArt(ctx context.Context, in ArtInput) (ArtResult, error) {
	if in.Mood == "" || in.Prompt == "" {
		return ArtResult{}, fmt.Errorf("mood and prompt are required")
	}
	if safety.IsCrisis(in.Prompt) {
		return ArtResult{}, safety.ErrCrisis
	}

	d := flow.Descriptor{
		Name:   "generateMoodArt",
		Model:  s.models.Chat,
		Prompt: artPrompt,
		Schema: artSchema(),
	}
	return flow.Run[ArtResult](ctx, s.client, d, in)
}
