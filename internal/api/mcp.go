package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/youthmind/youthmind/internal/community"
	"github.com/youthmind/youthmind/internal/flows"
	"github.com/youthmind/youthmind/internal/library"
	"github.com/youthmind/youthmind/internal/safety"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Flows   *flows.Service
	Board   *community.Board
	Library *library.Library
}

// NewMCPServer creates an MCP server exposing the wellness features as tools,
// so agent hosts can drive the same flows the HTTP API serves.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"youthmind",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("youthmind is an AI wellness companion for youth: mood support, coping activities, and a moderated peer board."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("detect_mood",
			mcp.WithDescription("Detect the mood in a piece of text and produce an empathetic response. Crisis language returns helpline resources instead."),
			mcp.WithString("text", mcp.Description("What the user wrote about how they feel"), mcp.Required()),
			mcp.WithString("language", mcp.Description("Response language (default English)")),
		),
		mcpDetectMood(deps),
	)

	s.AddTool(
		mcp.NewTool("journaling_prompt",
			mcp.WithDescription("Generate a creative journaling prompt tailored to a mood."),
			mcp.WithString("mood", mcp.Description("The user's current mood"), mcp.Required()),
			mcp.WithString("language", mcp.Description("Response language (default English)")),
		),
		mcpJournalingPrompt(deps),
	)

	s.AddTool(
		mcp.NewTool("game_suggestion",
			mcp.WithDescription("Suggest one calming activity for a mood, from the app's fixed activity set."),
			mcp.WithString("mood", mcp.Description("The user's current mood"), mcp.Required()),
			mcp.WithString("language", mcp.Description("Response language (default English)")),
		),
		mcpGameSuggestion(deps),
	)

	s.AddTool(
		mcp.NewTool("music_recommendation",
			mcp.WithDescription("Recommend a music genre or style for a mood."),
			mcp.WithString("mood", mcp.Description("The user's current mood"), mcp.Required()),
			mcp.WithString("language", mcp.Description("Response language (default English)")),
		),
		mcpMusicRecommendation(deps),
	)

	s.AddTool(
		mcp.NewTool("moderate_text",
			mcp.WithDescription("Classify text as safe or unsafe for the peer-support board."),
			mcp.WithString("text", mcp.Description("The text to screen"), mcp.Required()),
		),
		mcpModerateText(deps),
	)

	s.AddTool(
		mcp.NewTool("create_thread",
			mcp.WithDescription("Post an anonymous thread to the peer-support board. The post is moderated first and rejected posts are not stored."),
			mcp.WithString("title", mcp.Description("Thread title"), mcp.Required()),
			mcp.WithString("content", mcp.Description("Thread body"), mcp.Required()),
			mcp.WithArray("tags", mcp.Description("Optional topic tags")),
		),
		mcpCreateThread(deps),
	)

	s.AddTool(
		mcp.NewTool("list_threads",
			mcp.WithDescription("List peer-support threads, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of threads (default 20)")),
		),
		mcpListThreads(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"wellness://helplines",
			"Crisis Helplines",
			mcp.WithResourceDescription("Static crisis helpline contacts as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceHelplines(),
	)

	s.AddResource(
		mcp.NewResource(
			"wellness://library",
			"Wellness Library",
			mcp.WithResourceDescription("Curated wellness documents as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceLibrary(deps),
	)

	return s
}

func mcpDetectMood(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		language := req.GetString("language", "")

		out, err := deps.Flows.DetectMood(ctx, flows.MoodInput{Text: text, Language: language})
		if err != nil {
			return mcpFlowResult(err)
		}
		return mcpJSON(out)
	}
}

func mcpJournalingPrompt(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mood, err := req.RequireString("mood")
		if err != nil {
			return mcpError("mood is required"), nil
		}
		out, err := deps.Flows.JournalingPrompt(ctx, flows.RecommendInput{Mood: mood, Language: req.GetString("language", "")})
		if err != nil {
			return mcpError(fmt.Sprintf("journaling prompt failed: %v", err)), nil
		}
		return mcpText(out.Prompt), nil
	}
}

func mcpGameSuggestion(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mood, err := req.RequireString("mood")
		if err != nil {
			return mcpError("mood is required"), nil
		}
		out, err := deps.Flows.SuggestGame(ctx, flows.GameInput{Mood: mood, Language: req.GetString("language", "")})
		if err != nil {
			return mcpError(fmt.Sprintf("game suggestion failed: %v", err)), nil
		}
		return mcpJSON(out)
	}
}

func mcpMusicRecommendation(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mood, err := req.RequireString("mood")
		if err != nil {
			return mcpError("mood is required"), nil
		}
		out, err := deps.Flows.RecommendMusic(ctx, flows.RecommendInput{Mood: mood, Language: req.GetString("language", "")})
		if err != nil {
			return mcpError(fmt.Sprintf("music recommendation failed: %v", err)), nil
		}
		return mcpText(out.Recommendation), nil
	}
}

func mcpModerateText(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcpError("text is required"), nil
		}
		out, err := deps.Flows.ModerateText(ctx, text)
		if err != nil {
			return mcpError(fmt.Sprintf("moderation failed: %v", err)), nil
		}
		return mcpJSON(out)
	}
}

func mcpCreateThread(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		content, err := req.RequireString("content")
		if err != nil {
			return mcpError("content is required"), nil
		}
		tags := req.GetStringSlice("tags", nil)

		thread, err := deps.Board.CreateThread(ctx, community.CreateThreadInput{
			Title:   title,
			Content: content,
			Tags:    tags,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to create thread: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Posted thread %s", thread.ID)), nil
	}
}

func mcpListThreads(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		if limit <= 0 {
			limit = 20
		}
		if limit > 100 {
			limit = 100
		}

		threads, err := deps.Board.FetchThreads(limit)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to list threads: %v", err)), nil
		}
		return mcpJSON(threads)
	}
}

func mcpResourceHelplines() server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(safety.Resources())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal helplines: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceLibrary(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		resources, err := deps.Library.List(50)
		if err != nil {
			return nil, fmt.Errorf("failed to list resources: %w", err)
		}
		b, err := json.Marshal(resources)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal resources: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

// mcpFlowResult maps crisis short-circuits to the helpline payload so agent
// hosts surface support resources instead of an error.
func mcpFlowResult(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, safety.ErrCrisis) {
		b, merr := json.Marshal(map[string]any{
			"crisis":    true,
			"resources": safety.Resources(),
		})
		if merr != nil {
			return mcpError("failed to marshal crisis resources"), nil
		}
		return mcpText(string(b)), nil
	}
	return mcpError(fmt.Sprintf("flow failed: %v", err)), nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
