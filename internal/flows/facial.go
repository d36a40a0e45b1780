package flows

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/media"
)

// FacialMoodResult is the mood read from a face image.
type FacialMoodResult struct {
	Mood string `json:"mood"`
}

const facialPrompt = `You are an expert in analyzing facial expressions to determine a person's mood.

Analyze the provided image and determine the user's mood.
The mood should be one of: happy, sad, angry, fear, disgust, neutral, surprise.`

func facialSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"mood": {
				Type:        genai.TypeString,
				Description: "The detected mood of the user.",
				Enum:        []string{"happy", "sad", "angry", "fear", "disgust", "neutral", "surprise"},
			},
		},
		Required: []string{"mood"},
	}
}

// DetectMoodFromImage classifies mood from a face photo supplied as a data
// URI ("data:<mime>;base64,<data>").
func (s *Service) DetectMoodFromImage(ctx context.Context, imageDataURI string) (FacialMoodResult, error) {
	img, err := media.ParseDataURI(imageDataURI)
	if err != nil {
		return FacialMoodResult{}, fmt.Errorf("invalid image: %w", err)
	}

	d := flow.Descriptor{
		Name:   "facialMoodDetection",
		Model:  s.models.Chat,
		Prompt: facialPrompt,
		Schema: facialSchema(),
	}
	part := genai.MediaPart(img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
	return flow.Run[FacialMoodResult](ctx, s.client, d, struct{}{}, part)
}
