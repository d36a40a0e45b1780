package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/youthmind/youthmind/internal/flow"
	"github.com/youthmind/youthmind/internal/genai"
)

// RoadmapInput is the student profile a roadmap is generated from.
type RoadmapInput struct {
	Interests []string `json:"interests"`
	Skills    []string `json:"skills"`
	Avoid     []string `json:"avoid,omitempty"`
}

// RoadmapStep is one learning step in a career track.
type RoadmapStep struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	DurationWeeks float64  `json:"durationWeeks"`
	Resources     []string `json:"resources"`
	MicroActions  []string `json:"microActions"`
	Dependencies  []string `json:"dependencies,omitempty"`
}

// CareerTrack is one recommended track with its step plan.
type CareerTrack struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Confidence     float64       `json:"confidence"`
	SkillsTargeted []string      `json:"skillsTargeted"`
	DurationMonths float64       `json:"durationMonths"`
	Steps          []RoadmapStep `json:"steps"`
	CareerOutcomes []string      `json:"careerOutcomes"`
}

// FlowNode is a positioned flowchart node. Coordinates come from the model
// itself; nothing locally verifies acyclicity or overlap.
type FlowNode struct {
	ID       string       `json:"id"`
	Position FlowPosition `json:"position"`
	Data     FlowLabel    `json:"data"`
	Type     string       `json:"type,omitempty"`
}

type FlowPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type FlowLabel struct {
	Label string `json:"label"`
}

// FlowEdge is a directed edge between flowchart nodes, derived from step
// dependencies.
type FlowEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Animated bool   `json:"animated,omitempty"`
}

// Flowchart is the layout of the highest-confidence track.
type Flowchart struct {
	Nodes []FlowNode `json:"nodes"`
	Edges []FlowEdge `json:"edges"`
}

// Roadmap is the full generated career and education plan.
type Roadmap struct {
	RoadmapID   string        `json:"roadmapId"`
	GeneratedAt string        `json:"generatedAt"`
	Tracks      []CareerTrack `json:"tracks"`
	Flowchart   Flowchart     `json:"flowchart"`
	Explanation string        `json:"explanation"`
}

const roadmapPrompt = `You are an expert career counselor for high school and college students, grounded in psychology and modern pedagogy. Your goal is to reduce their stress by providing clear, actionable, and personalized career roadmaps that are future-proof.

A student has provided the following profile:
- Interests: {{.Interests}}
- Current Skills: {{.Skills}}
- Things to Avoid: {{.Avoid}}

Based on this profile, your tasks are:
1. Analyze the profile and identify 2 top career tracks. For each track, provide a confidence score (0.0 to 1.0). Prioritize hybrid roles (e.g., tech + creativity) and in-demand fields (AI, biotech, sustainability, design).
2. For each track, create a step-by-step plan. Break the learning into manageable steps of a few weeks each, with a title, duration, online learning resources, and concrete microActions. Define dependencies between steps. List key skillsTargeted and potential careerOutcomes for the entire track, and estimate the total durationMonths.
3. Write a short, encouraging, plain-language explanation of why the recommended roadmap fits the student, referencing their interests and skills.
4. For the highest-confidence track only, generate flowchart data: a 'Start' node, one node per step (the node id must match the step id), and edges connecting nodes based on the dependencies arrays. The edges must form a directed acyclic graph: no step may depend, directly or transitively, on itself, and the Start node has no incoming edges. Position nodes sequentially left to right, starting at (0,0), spaced out horizontally.

Include a roadmapId and the current generatedAt ISO 8601 timestamp.`

func roadmapSchema() *genai.Schema {
	step := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":            {Type: genai.TypeString, Description: "A unique ID for this step (e.g., \"html-css\")."},
			"title":         {Type: genai.TypeString, Description: "The title of the roadmap step."},
			"durationWeeks": {Type: genai.TypeNumber, Description: "The estimated duration of this step in weeks."},
			"resources":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "A list of suggested learning resources."},
			"microActions":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Small, concrete actions for the student to take."},
			"dependencies":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Step IDs that must be completed before this one."},
		},
		Required: []string{"id", "title", "durationWeeks", "resources", "microActions"},
	}
	track := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":             {Type: genai.TypeString, Description: "A unique ID for this career track (e.g., \"web-dev\")."},
			"name":           {Type: genai.TypeString, Description: "The name of the career track."},
			"confidence":     {Type: genai.TypeNumber, Description: "Confidence that this track is a good fit, from 0.0 to 1.0."},
			"skillsTargeted": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"durationMonths": {Type: genai.TypeNumber, Description: "The estimated total duration of this track in months."},
			"steps":          {Type: genai.TypeArray, Items: step},
			"careerOutcomes": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"id", "name", "confidence", "skillsTargeted", "durationMonths", "steps", "careerOutcomes"},
	}
	node := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id": {Type: genai.TypeString},
			"position": {Type: genai.TypeObject, Properties: map[string]*genai.Schema{
				"x": {Type: genai.TypeNumber},
				"y": {Type: genai.TypeNumber},
			}, Required: []string{"x", "y"}},
			"data": {Type: genai.TypeObject, Properties: map[string]*genai.Schema{
				"label": {Type: genai.TypeString},
			}, Required: []string{"label"}},
			"type": {Type: genai.TypeString, Enum: []string{"input", "output", "default"}},
		},
		Required: []string{"id", "position", "data"},
	}
	edge := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":       {Type: genai.TypeString},
			"source":   {Type: genai.TypeString},
			"target":   {Type: genai.TypeString},
			"animated": {Type: genai.TypeBoolean},
		},
		Required: []string{"id", "source", "target"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"roadmapId":   {Type: genai.TypeString, Description: "A unique ID for the entire roadmap."},
			"generatedAt": {Type: genai.TypeString, Description: "The ISO 8601 timestamp of when the roadmap was generated."},
			"tracks":      {Type: genai.TypeArray, Items: track, Description: "An array of 2-3 recommended career tracks."},
			"flowchart": {Type: genai.TypeObject, Properties: map[string]*genai.Schema{
				"nodes": {Type: genai.TypeArray, Items: node},
				"edges": {Type: genai.TypeArray, Items: edge},
			}, Required: []string{"nodes", "edges"}, Description: "A flowchart representation of the highest-confidence career track."},
			"explanation": {Type: genai.TypeString, Description: "A plain-language justification for why this roadmap fits the student's profile."},
		},
		Required: []string{"tracks", "flowchart", "explanation"},
	}
}

// GenerateRoadmap produces 2-3 career tracks plus a flowchart for the
// highest-confidence one. roadmapId and generatedAt are default-filled when
// the model omits them; nothing else in the response is touched.
func (s *Service) GenerateRoadmap(ctx context.Context, in RoadmapInput) (Roadmap, error) {
	if len(in.Interests) == 0 && len(in.Skills) == 0 {
		return Roadmap{}, fmt.Errorf("at least one interest or skill is required")
	}

	d := flow.Descriptor{
		Name:   "generateRoadmap",
		Model:  s.models.Chat,
		Prompt: roadmapPrompt,
		Schema: roadmapSchema(),
	}
	out, err := flow.Run[Roadmap](ctx, s.client, d, in)
	if err != nil {
		return Roadmap{}, err
	}
	if out.RoadmapID == "" {
		out.RoadmapID = uuid.New().String()
	}
	if out.GeneratedAt == "" {
		out.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return out, nil
}
