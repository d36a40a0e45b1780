package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
)

// Moderation is the safety verdict for a piece of user text.
type Moderation struct {
	IsSafe bool   `json:"isSafe"`
	Reason string `json:"reason,omitempty"`
}

const moderatePrompt = `Review the following text for harmful content such as hate speech, harassment, self-harm, or sexually explicit material appropriate for a youth wellness app.
Text: "{{.Text}}"
Is this text safe? Respond in JSON.`

func moderateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isSafe": {Type: genai.TypeBoolean, Description: "Whether the text is considered safe or not."},
			"reason": {Type: genai.TypeString, Description: "The reason why the text was flagged, if it was not safe."},
		},
		Required: []string{"isSafe"},
	}
}

// ModerateText classifies text as safe/unsafe before it is persisted or
// acted upon. An empty model verdict fails closed: the text is treated as
// unsafe rather than returning an error.
func (s *Service) ModerateText(ctx context.Context, text string) (Moderation, error) {
	if text == "" {
		return Moderation{}, fmt.Errorf("text is required")
	}

	d := flow.Descriptor{
		Name:   "moderateText",
		Model:  s.models.Chat,
		Prompt: moderatePrompt,
		Schema: moderateSchema(),
	}
	out, err := flow.Run[Moderation](ctx, s.client, d, struct{ Text string }{Text: text})
	if errors.Is(err, flow.ErrNoOutput) {
		return Moderation{IsSafe: false, Reason: "Analysis failed."}, nil
	}
	if err != nil {
		return Moderation{}, err
	}
	return out, nil
}
