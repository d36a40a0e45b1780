package flows

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/media"
)

// VoiceInput is one recorded utterance plus the transcript so far.
type VoiceInput struct {
	AudioDataURI string      `json:"audioDataUri"`
	Language     string      `json:"language,omitempty"`
	History      []flow.Turn `json:"history,omitempty"`
}

// VoiceResult is the full counselor turn: what the user said, how they
// sounded, the reply text, and the synthesized reply audio as a WAV data URI.
type VoiceResult struct {
	ResponseText         string `json:"responseText"`
	ResponseAudioDataURI string `json:"responseAudioDataUri"`
	UserTranscript       string `json:"userTranscript"`
	DetectedTone         string `json:"detectedTone"`
}

// voiceAnalysis is stage one's output: transcript plus vocal tone.
type voiceAnalysis struct {
	UserTranscript string `json:"userTranscript"`
	DetectedTone   string `json:"detectedTone"`
}

const voiceAnalysisPrompt = `Analyze the provided audio. First, transcribe the speech to text. Second, analyze the emotional tone of the voice (e.g., "upbeat", "somber", "anxious", "neutral").`

const voiceReplyPrompt = `You are a highly skilled psychiatrist and an empathetic AI wellness companion for youth (ages 13-25). Your name is MindEaseAI.

You are analyzing a user's voice input.
- The user's speech has been transcribed as: "{{.UserTranscript}}"
- The emotional tone of their voice has been analyzed as: "{{.DetectedTone}}"

Your task is to respond as a compassionate, professional psychiatrist, taking BOTH the text and the emotional tone into account.
1. Acknowledge and validate the user's feelings, considering their tone. For example, if their tone is "somber" but their words are neutral, you can gently inquire about what might be on their mind.
2. If the user is describing a problem, gently guide them to explore their thoughts and feelings more deeply. Ask open-ended questions.
3. If appropriate, offer evidence-based coping strategies, mindfulness exercises, or principles from Cognitive Behavioral Therapy (CBT).
4. Maintain a supportive, non-judgmental, and encouraging tone.
5. Ensure your response is safe, ethical, and appropriate for a young audience.
6. Keep your responses concise and easy to understand, typically 2-4 sentences.
7. Respond in the user's specified language: {{.Language}}.`

func voiceAnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"userTranscript": {Type: genai.TypeString, Description: "The exact transcription of the user's speech."},
			"detectedTone":   {Type: genai.TypeString, Description: "The detected emotional tone of the speaker's voice."},
		},
		Required: []string{"userTranscript", "detectedTone"},
	}
}

// VoiceTurn runs the three-stage voice counselor pipeline: transcribe and
// tone-classify the audio, generate the reply text, then synthesize speech
// and package the raw PCM into a WAV data URI. The stages run strictly
// sequentially; any failure aborts the whole turn with no partial result.
func (s *Service) VoiceTurn(ctx context.Context, in VoiceInput) (VoiceResult, error) {
	audio, err := media.ParseDataURI(in.AudioDataURI)
	if err != nil {
		return VoiceResult{}, fmt.Errorf("invalid audio: %w", err)
	}

	analysisDesc := flow.Descriptor{
		Name:   "voiceAnalysis",
		Model:  s.models.Chat,
		Prompt: voiceAnalysisPrompt,
		Schema: voiceAnalysisSchema(),
	}
	audioPart := genai.MediaPart(audio.MIMEType, base64.StdEncoding.EncodeToString(audio.Data))
	analysis, err := flow.Run[voiceAnalysis](ctx, s.client, analysisDesc, struct{}{}, audioPart)
	if err != nil {
		return VoiceResult{}, fmt.Errorf("analyzing audio: %w", err)
	}

	replyDesc := flow.Descriptor{
		Name:   "counselorVoiceReply",
		Model:  s.models.Chat,
		Prompt: voiceReplyPrompt,
		Schema: chatSchema(),
	}
	replyInput := struct {
		UserTranscript string
		DetectedTone   string
		Language       string
	}{analysis.UserTranscript, analysis.DetectedTone, language(in.Language)}
	reply, err := flow.RunConversation[ChatResult](ctx, s.client, replyDesc, replyInput, in.History)
	if err != nil {
		return VoiceResult{}, fmt.Errorf("generating reply: %w", err)
	}

	audioURI, err := s.synthesizeSpeech(ctx, reply.Response)
	if err != nil {
		return VoiceResult{}, fmt.Errorf("synthesizing speech: %w", err)
	}

	return VoiceResult{
		ResponseText:         reply.Response,
		ResponseAudioDataURI: audioURI,
		UserTranscript:       analysis.UserTranscript,
		DetectedTone:         analysis.DetectedTone,
	}, nil
}

// synthesizeSpeech asks the TTS model for raw PCM of the reply text and
// repackages it as a WAV data URI (mono, 24 kHz, 16-bit).
func (s *Service) synthesizeSpeech(ctx context.Context, text string) (string, error) {
	req := genai.GenerateRequest{
		Contents: []genai.Content{genai.UserContent(genai.TextPart(text))},
		GenerationConfig: &genai.GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: genai.VoiceConfig{
					PrebuiltVoiceConfig: genai.PrebuiltVoiceConfig{VoiceName: s.models.TTSVoice},
				},
			},
		},
	}

	resp, err := s.client.GenerateContent(ctx, s.models.TTS, req)
	if err != nil {
		return "", err
	}

	blob := resp.InlineData()
	if blob == nil {
		return "", fmt.Errorf("no audio returned from TTS model: %w", flow.ErrNoOutput)
	}
	pcm, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return "", fmt.Errorf("decoding TTS audio: %w", err)
	}

	return media.FormatDataURI("audio/wav", media.EncodeWAV(pcm)), nil
}
