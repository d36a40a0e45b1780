// Package flows defines the wellness feature set as flow descriptors over
// the generative AI service: mood detection, counselor chat, voice turns,
// recommendations, the career roadmap, and text moderation.
package flows

import (
	"github.com/youthmind/youthmind/internal/flow"
)

// Models names the upstream models each flow family uses.
type Models struct {
	Chat     string // text and multimodal generation
	TTS      string // speech synthesis
	TTSVoice string // prebuilt synthesis voice name
}

// Service invokes the flow set against one generative AI client. All state
// lives in the request/response values; the service itself is stateless and
// safe for concurrent use.
type Service struct {
	client flow.Caller
	models Models
}

// NewService creates a flow service using the given client and model names.
func NewService(client flow.Caller, models Models) *Service {
	return &Service{client: client, models: models}
}

// defaultLanguage is used when a request does not specify one.
const defaultLanguage = "English"

func language(s string) string {
	if s == "" {
		return defaultLanguage
	}
	return s
}
