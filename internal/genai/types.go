package genai

import "strings"

// Schema type names accepted by the generative service for structured output.
const (
	TypeObject  = "OBJECT"
	TypeString  = "STRING"
	TypeNumber  = "NUMBER"
	TypeInteger = "INTEGER"
	TypeBoolean = "BOOLEAN"
	TypeArray   = "ARRAY"
)

// Schema declares the expected shape of a structured model response. Field
// descriptions are part of the contract: the service uses them as generation
// guidance, so they should read as instructions.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Blob carries inline binary media (base64-encoded) in a content part.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Part is one piece of multimodal content: text or inline media.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Content is a role-tagged sequence of parts. Roles are "user" and "model".
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// SpeechConfig selects the synthesis voice for audio generation.
type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// GenerationConfig constrains the model output. Setting ResponseSchema with
// a JSON MIME type requests best-effort structured generation.
type GenerationConfig struct {
	ResponseMIMEType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     *Schema       `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one model completion.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateResponse is the generateContent response body.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Text returns the concatenated text parts of the first candidate, or ""
// when the response carries no text.
func (r *GenerateResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// InlineData returns the first inline media blob of the first candidate, or
// nil when the response carries none.
func (r *GenerateResponse) InlineData() *Blob {
	if r == nil || len(r.Candidates) == 0 {
		return nil
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.InlineData != nil {
			return p.InlineData
		}
	}
	return nil
}

// UserContent builds a single user-role content from parts.
func UserContent(parts ...Part) Content {
	return Content{Role: "user", Parts: parts}
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// MediaPart builds an inline media part from a MIME type and base64 data.
func MediaPart(mimeType, base64Data string) Part {
	return Part{InlineData: &Blob{MIMEType: mimeType, Data: base64Data}}
}
