package mcp

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ponderworks/ponder/internal/metrics"
	"github.com/ponderworks/ponder/pkg/domain"
	"github.com/ponderworks/ponder/pkg/thinking"
)

// ThoughtResponse is the envelope returned by the sequential_thinking tool.
// On failure the numeric fields are zeroed and ThoughtHistoryLength reports
// the history length as it was before the failed call.
type ThoughtResponse struct {
	ThoughtNumber        int      `json:"thought_number"`
	TotalThoughts        int      `json:"total_thoughts"`
	NextThoughtNeeded    bool     `json:"next_thought_needed"`
	Branches             []string `json:"branches"`
	ThoughtHistoryLength int      `json:"thought_history_length"`
	Error                string   `json:"error,omitempty"`
	Status               string   `json:"status"`
}

// ClearResponse is the envelope returned by clear_thought_history.
type ClearResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) registerThinkingTools() {
	// TOOL: sequential_thinking
	thinkingTool := mcp.NewTool("sequential_thinking",
		mcp.WithDescription("A detailed tool for dynamic and reflective problem-solving through thoughts. "+
			"Each thought can build on, question, or revise previous insights as understanding deepens. "+
			"Adjust total_thoughts up or down as you progress, revise earlier thoughts, or branch into "+
			"alternative lines of reasoning. Only set next_thought_needed to false when truly done."),
		mcp.WithString("thought", mcp.Required(), mcp.Description("Your current thinking step")),
		mcp.WithBoolean("next_thought_needed", mcp.Required(), mcp.Description("True if more thinking is needed, even if at what seemed like the end")),
		mcp.WithNumber("thought_number", mcp.Required(), mcp.Description("Current number in sequence (can go beyond the initial total if needed)")),
		mcp.WithNumber("total_thoughts", mcp.Required(), mcp.Description("Current estimate of thoughts needed (can be adjusted up or down)")),
		mcp.WithBoolean("is_revision", mcp.Description("Whether this thought revises previous thinking")),
		mcp.WithNumber("revises_thought", mcp.Description("If is_revision is true, which thought number is being reconsidered")),
		mcp.WithBoolean("needs_more_thoughts", mcp.Description("If reaching the end but realizing more thoughts are needed")),
		mcp.WithNumber("branch_from_thought", mcp.Description("If branching, which thought number is the branching point")),
		mcp.WithString("branch_id", mcp.Description("Identifier for the current branch (if any)")),
		mcp.WithOutputSchema[ThoughtResponse](),
	)
	s.mcpServer.AddTool(thinkingTool, mcp.NewStructuredToolHandler(s.handleSequentialThinking))

	// TOOL: get_thought_summary
	summaryTool := mcp.NewTool("get_thought_summary",
		mcp.WithDescription("Get a summary of the current thinking session: thought history length, branches, and latest state."),
		mcp.WithOutputSchema[thinking.Summary](),
	)
	s.mcpServer.AddTool(summaryTool, mcp.NewStructuredToolHandler(s.handleThoughtSummary))

	// TOOL: clear_thought_history
	clearTool := mcp.NewTool("clear_thought_history",
		mcp.WithDescription("Clear the thought history and branches, resetting the thinking session to start fresh."),
		mcp.WithOutputSchema[ClearResponse](),
	)
	s.mcpServer.AddTool(clearTool, mcp.NewStructuredToolHandler(s.handleClearHistory))
}

// handleSequentialThinking validates the raw payload and records the
// thought. Validation failures become structured failure envelopes; they
// never surface as tool faults, and they leave the session untouched.
func (s *Server) handleSequentialThinking(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ThoughtResponse, error) {
	rec, err := domain.DecodeThought(args)
	if err != nil {
		metrics.ThoughtValidationFailures.Inc()

		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			s.logger.Error("unexpected thought decode failure", "error", err)
		}
		s.logger.Warn("thought rejected", "error", err)

		return ThoughtResponse{
			NextThoughtNeeded:    false,
			Branches:             []string{},
			ThoughtHistoryLength: s.store.HistoryLength(),
			Error:                err.Error(),
			Status:               "failed",
		}, nil
	}

	snap := s.store.Record(rec)
	metrics.ThoughtsRecorded.Inc()

	return ThoughtResponse{
		ThoughtNumber:        snap.ThoughtNumber,
		TotalThoughts:        snap.TotalThoughts,
		NextThoughtNeeded:    snap.NextThoughtNeeded,
		Branches:             snap.Branches,
		ThoughtHistoryLength: snap.ThoughtHistoryLength,
		Status:               "success",
	}, nil
}

func (s *Server) handleThoughtSummary(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (thinking.Summary, error) {
	return s.store.Summarize(), nil
}

func (s *Server) handleClearHistory(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ClearResponse, error) {
	s.store.Clear()
	metrics.HistoryClears.Inc()

	return ClearResponse{
		Status:  "success",
		Message: "Thought history and branches cleared",
	}, nil
}
