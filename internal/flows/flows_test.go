package flows

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
	"github.com/youthmind/youthmind/internal/safety"
)

// scriptedCaller plays back one canned response per call, in order.
type scriptedCaller struct {
	responses []*genai.GenerateResponse
	errs      []error
	requests  []genai.GenerateRequest
	models    []string
}

func (s *scriptedCaller) GenerateContent(_ context.Context, model string, req genai.GenerateRequest) (*genai.GenerateResponse, error) {
	i := len(s.requests)
	s.requests = append(s.requests, req)
	s.models = append(s.models, model)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return &genai.GenerateResponse{}, nil
}

func jsonResponse(s string) *genai.GenerateResponse {
	return &genai.GenerateResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Role: "model", Parts: []genai.Part{{Text: s}}},
	}}}
}

func audioResponse(mime string, pcm []byte) *genai.GenerateResponse {
	return &genai.GenerateResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Role: "model", Parts: []genai.Part{
			{InlineData: &genai.Blob{MIMEType: mime, Data: base64.StdEncoding.EncodeToString(pcm)}},
		}},
	}}}
}

func testService(c flow.Caller) *Service {
	return NewService(c, Models{Chat: "chat-model", TTS: "tts-model", TTSVoice: "Algenib"})
}

func TestDetectMoodCrisisGate(t *testing.T) {
	crisisTexts := []string{
		"I want to end my life",
		"I've been feeling SUICIDAL lately",
		"thinking about self-harm again",
	}
	for _, text := range crisisTexts {
		c := &scriptedCaller{}
		svc := testService(c)

		_, err := svc.DetectMood(context.Background(), MoodInput{Text: text})
		if !errors.Is(err, safety.ErrCrisis) {
			t.Errorf("DetectMood(%q) err = %v, want ErrCrisis", text, err)
		}
		if len(c.requests) != 0 {
			t.Errorf("DetectMood(%q) dispatched %d AI calls, want 0", text, len(c.requests))
		}
	}
}

func TestCounselorChatCrisisGate(t *testing.T) {
	c := &scriptedCaller{}
	svc := testService(c)

	_, err := svc.CounselorChat(context.Background(), ChatInput{Text: "some days I can't go on"})
	if !errors.Is(err, safety.ErrCrisis) {
		t.Fatalf("err = %v, want ErrCrisis", err)
	}
	if len(c.requests) != 0 {
		t.Errorf("AI calls = %d, want 0", len(c.requests))
	}
}

func TestMoodArtCrisisGate(t *testing.T) {
	c := &scriptedCaller{}
	svc := testService(c)

	_, err := svc.MoodArt(context.Background(), ArtInput{Mood: "sad", Prompt: "I want to kill myself"})
	if !errors.Is(err, safety.ErrCrisis) {
		t.Fatalf("err = %v, want ErrCrisis", err)
	}
	if len(c.requests) != 0 {
		t.Errorf("AI calls = %d, want 0", len(c.requests))
	}
}

func TestDetectMoodIdentity(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"mood":"happy","response":"Glad to hear it!"}`),
	}}
	svc := testService(c)

	out, err := svc.DetectMood(context.Background(), MoodInput{Text: "today was a really good day"})
	if err != nil {
		t.Fatalf("DetectMood: %v", err)
	}
	if out.Mood != "happy" || out.Response != "Glad to hear it!" {
		t.Errorf("result mutated: %+v", out)
	}
	if c.models[0] != "chat-model" {
		t.Errorf("model = %q, want chat-model", c.models[0])
	}
}

func TestDetectMoodEmptyOutputFails(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{{}}}
	svc := testService(c)

	_, err := svc.DetectMood(context.Background(), MoodInput{Text: "feeling fine I suppose"})
	if !errors.Is(err, flow.ErrNoOutput) {
		t.Fatalf("err = %v, want ErrNoOutput", err)
	}
}

func TestCounselorChatCarriesHistory(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"response":"That sounds hard. What do you think triggered it?"}`),
	}}
	svc := testService(c)

	history := []flow.Turn{
		{Role: "user", Text: "school has been stressful"},
		{Role: "model", Text: "I'm sorry to hear that."},
	}
	out, err := svc.CounselorChat(context.Background(), ChatInput{Text: "it got worse today", History: history})
	if err != nil {
		t.Fatalf("CounselorChat: %v", err)
	}
	if out.Response == "" {
		t.Error("empty response")
	}
	if len(c.requests[0].Contents) != 3 {
		t.Errorf("contents = %d, want 2 history turns + prompt", len(c.requests[0].Contents))
	}
}

func TestModerateTextVerdictPassthrough(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"isSafe":false,"reason":"contains harassment"}`),
	}}
	svc := testService(c)

	v, err := svc.ModerateText(context.Background(), "some hostile text")
	if err != nil {
		t.Fatalf("ModerateText: %v", err)
	}
	if v.IsSafe {
		t.Error("IsSafe = true, want false")
	}
	if v.Reason != "contains harassment" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestModerateTextFailsClosed(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{{}}}
	svc := testService(c)

	v, err := svc.ModerateText(context.Background(), "anything")
	if err != nil {
		t.Fatalf("ModerateText: %v", err)
	}
	if v.IsSafe {
		t.Error("empty model verdict must be treated as unsafe")
	}
	if v.Reason == "" {
		t.Error("fail-closed verdict should carry a reason")
	}
}

func TestSuggestGameClosedEnum(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"gameId":"doomscroller","title":"x","description":"y"}`),
	}}
	svc := testService(c)

	_, err := svc.SuggestGame(context.Background(), GameInput{Mood: "bored"})
	if err == nil {
		t.Fatal("expected error for unknown gameId")
	}
	if !strings.Contains(err.Error(), "doomscroller") {
		t.Errorf("error %q should name the offending gameId", err)
	}
}

func TestSuggestGameValid(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"gameId":"breathing","title":"Deep Breaths","description":"A calming exercise."}`),
	}}
	svc := testService(c)

	out, err := svc.SuggestGame(context.Background(), GameInput{Mood: "anxious"})
	if err != nil {
		t.Fatalf("SuggestGame: %v", err)
	}
	if out.GameID != "breathing" {
		t.Errorf("gameId = %q", out.GameID)
	}
}

func TestGenerateRoadmapDefaultStamps(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"tracks":[{"id":"web-dev","name":"Web Developer","confidence":0.9,"skillsTargeted":["html"],"durationMonths":6,"steps":[],"careerOutcomes":["Frontend Dev"]}],"flowchart":{"nodes":[],"edges":[]},"explanation":"fits your interests"}`),
	}}
	svc := testService(c)

	out, err := svc.GenerateRoadmap(context.Background(), RoadmapInput{Interests: []string{"coding"}})
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	if out.RoadmapID == "" {
		t.Error("roadmapId not default-filled")
	}
	if out.GeneratedAt == "" {
		t.Error("generatedAt not default-filled")
	}
	if out.Tracks[0].Name != "Web Developer" {
		t.Errorf("track mutated: %+v", out.Tracks[0])
	}
}

func TestGenerateRoadmapPreservesModelStamps(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"roadmapId":"rm-1","generatedAt":"2026-01-02T03:04:05Z","tracks":[],"flowchart":{"nodes":[],"edges":[]},"explanation":"e"}`),
	}}
	svc := testService(c)

	out, err := svc.GenerateRoadmap(context.Background(), RoadmapInput{Skills: []string{"math"}})
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}
	if out.RoadmapID != "rm-1" || out.GeneratedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("model-provided stamps overwritten: %+v", out)
	}
}

func TestDetectMoodFromImageRejectsBadURI(t *testing.T) {
	c := &scriptedCaller{}
	svc := testService(c)

	_, err := svc.DetectMoodFromImage(context.Background(), "not-a-data-uri")
	if err == nil {
		t.Fatal("expected error for malformed data URI")
	}
	if len(c.requests) != 0 {
		t.Errorf("AI calls = %d, want 0", len(c.requests))
	}
}

func TestDetectMoodFromImage(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"mood":"neutral"}`),
	}}
	svc := testService(c)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	out, err := svc.DetectMoodFromImage(context.Background(), uri)
	if err != nil {
		t.Fatalf("DetectMoodFromImage: %v", err)
	}
	if out.Mood != "neutral" {
		t.Errorf("mood = %q", out.Mood)
	}

	parts := c.requests[0].Contents[0].Parts
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/png" {
		t.Errorf("image part missing or wrong mime: %+v", parts[0])
	}
}

func TestVoiceTurnPipeline(t *testing.T) {
	pcm := []byte{0x10, 0x20, 0x30, 0x40}
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"userTranscript":"I had a rough week","detectedTone":"somber"}`),
		jsonResponse(`{"response":"That sounds heavy. Want to talk about it?"}`),
		audioResponse("audio/pcm;rate=24000", pcm),
	}}
	svc := testService(c)

	uri := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString([]byte("opusdata"))
	out, err := svc.VoiceTurn(context.Background(), VoiceInput{AudioDataURI: uri, Language: "English"})
	if err != nil {
		t.Fatalf("VoiceTurn: %v", err)
	}

	if len(c.requests) != 3 {
		t.Fatalf("AI calls = %d, want 3 sequential stages", len(c.requests))
	}
	if c.models[2] != "tts-model" {
		t.Errorf("TTS stage used model %q", c.models[2])
	}

	if out.UserTranscript != "I had a rough week" || out.DetectedTone != "somber" {
		t.Errorf("analysis fields wrong: %+v", out)
	}
	if out.ResponseText != "That sounds heavy. Want to talk about it?" {
		t.Errorf("responseText = %q", out.ResponseText)
	}

	// The reply prompt must carry transcript and tone from stage one.
	replyPrompt := c.requests[1].Contents[len(c.requests[1].Contents)-1].Parts[0].Text
	if !strings.Contains(replyPrompt, "I had a rough week") || !strings.Contains(replyPrompt, "somber") {
		t.Errorf("reply prompt missing stage-one outputs: %q", replyPrompt)
	}

	// Output audio is a WAV data URI wrapping the PCM exactly.
	rest, ok := strings.CutPrefix(out.ResponseAudioDataURI, "data:audio/wav;base64,")
	if !ok {
		t.Fatalf("audio URI = %q, want wav data URI", out.ResponseAudioDataURI[:32])
	}
	wav, err := base64.StdEncoding.DecodeString(rest)
	if err != nil {
		t.Fatalf("decoding wav payload: %v", err)
	}
	if len(wav) != 44+len(pcm) {
		t.Errorf("wav length = %d, want %d", len(wav), 44+len(pcm))
	}
}

func TestVoiceTurnStageFailureAborts(t *testing.T) {
	c := &scriptedCaller{
		responses: []*genai.GenerateResponse{
			jsonResponse(`{"userTranscript":"hi","detectedTone":"neutral"}`),
		},
		errs: []error{nil, errors.New("upstream down")},
	}
	svc := testService(c)

	uri := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString([]byte("x"))
	_, err := svc.VoiceTurn(context.Background(), VoiceInput{AudioDataURI: uri})
	if err == nil {
		t.Fatal("expected error when reply stage fails")
	}
	if len(c.requests) != 2 {
		t.Errorf("AI calls = %d, want 2 (no TTS after reply failure)", len(c.requests))
	}
}

func TestVoiceTurnNoTTSAudioFails(t *testing.T) {
	c := &scriptedCaller{responses: []*genai.GenerateResponse{
		jsonResponse(`{"userTranscript":"hi","detectedTone":"neutral"}`),
		jsonResponse(`{"response":"hello"}`),
		jsonResponse(`no audio here`),
	}}
	svc := testService(c)

	uri := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString([]byte("x"))
	_, err := svc.VoiceTurn(context.Background(), VoiceInput{AudioDataURI: uri})
	if !errors.Is(err, flow.ErrNoOutput) {
		t.Fatalf("err = %v, want wrapped ErrNoOutput", err)
	}
}
