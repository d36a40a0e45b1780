package safety

import (
	"errors"
	"strings"
)

// ErrCrisis is returned by orchestration code when user text matched the
// crisis keyword gate. It is not a failure: callers replace the normal flow
// with the static helpline payload.
var ErrCrisis = errors.New("crisis keywords detected")

// crisisKeywords is a deliberately blunt substring blocklist. Matching is
// case-insensitive and not word-boundary aware; false positives and
// paraphrase misses are accepted trade-offs. Do not change the matching
// semantics without review by a safety specialist.
var crisisKeywords = []string{
	"suicidal",
	"self-harm",
	"can't go on",
	"end my life",
	"kill myself",
}

// IsCrisis reports whether text contains any crisis keyword.
func IsCrisis(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range crisisKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Helpline is one crisis support contact surfaced in place of an AI response.
type Helpline struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Region string `json:"region"`
}

// CrisisResources is the static payload shown when the gate trips.
type CrisisResources struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Helplines []Helpline `json:"helplines"`
	Emergency string     `json:"emergency"`
}

// Resources returns the helpline payload. The contents are static
// configuration, not generated.
func Resources() CrisisResources {
	return CrisisResources{
		Title:   "It's okay to ask for help",
		Message: "It sounds like you're going through a lot right now. Please know that support is available and you don't have to go through this alone.",
		Helplines: []Helpline{
			{Name: "Vandrevala Foundation", Phone: "9152987821", Region: "India"},
			{Name: "KIRAN", Phone: "1800-599-0019", Region: "India"},
		},
		Emergency: "If you are in immediate danger, please call your local emergency services.",
	}
}
