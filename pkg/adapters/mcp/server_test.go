package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponderworks/ponder/pkg/arxiv"
	"github.com/ponderworks/ponder/pkg/thinking"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Test Paper</title>
    <summary>An abstract.</summary>
    <published>2023-01-01T12:00:00Z</published>
    <updated>2023-01-01T12:00:00Z</updated>
    <author><name>Ada Lovelace</name></author>
    <category term="cs.AI"/>
  </entry>
</feed>`

func newTestServer(t *testing.T, feedBody string, status int) *Server {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "upstream failure", status)
			return
		}
		w.Write([]byte(feedBody))
	}))
	t.Cleanup(upstream.Close)

	store := thinking.NewStore()
	papers := arxiv.NewClient(arxiv.WithBaseURL(upstream.URL))
	return NewServer("ponder-test", "0.0.0", store, papers)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

func TestHandleSequentialThinking_Success(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)
	args := map[string]any{
		"thought":             "first",
		"thought_number":      float64(1),
		"total_thoughts":      float64(3),
		"next_thought_needed": true,
	}

	resp, err := srv.handleSequentialThinking(context.Background(), callRequest("sequential_thinking", args), args)
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 1, resp.ThoughtNumber)
	assert.Equal(t, 3, resp.TotalThoughts)
	assert.True(t, resp.NextThoughtNeeded)
	assert.Equal(t, 1, resp.ThoughtHistoryLength)
	assert.Empty(t, resp.Branches)
}

func TestHandleSequentialThinking_FloorCorrection(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)
	args := map[string]any{
		"thought":           "overflow",
		"thoughtNumber":     float64(8),
		"totalThoughts":     float64(3),
		"nextThoughtNeeded": true,
	}

	resp, err := srv.handleSequentialThinking(context.Background(), callRequest("sequential_thinking", args), args)
	require.NoError(t, err)
	assert.Equal(t, 8, resp.TotalThoughts)
}

func TestHandleSequentialThinking_ValidationFailure(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)

	// seed one valid thought so the failure envelope reports prior length
	seed := map[string]any{
		"thought":             "seed",
		"thought_number":      float64(1),
		"total_thoughts":      float64(1),
		"next_thought_needed": false,
	}
	_, err := srv.handleSequentialThinking(context.Background(), callRequest("sequential_thinking", seed), seed)
	require.NoError(t, err)

	bad := map[string]any{
		"thought_number":      float64(2),
		"total_thoughts":      float64(2),
		"next_thought_needed": true,
	}
	resp, err := srv.handleSequentialThinking(context.Background(), callRequest("sequential_thinking", bad), bad)
	require.NoError(t, err, "validation failures are answered, not raised")

	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, "missing required field: thought", resp.Error)
	assert.Zero(t, resp.ThoughtNumber)
	assert.Zero(t, resp.TotalThoughts)
	assert.False(t, resp.NextThoughtNeeded)
	assert.Equal(t, 1, resp.ThoughtHistoryLength, "rejected thought is not stored")
	assert.Equal(t, 1, srv.store.HistoryLength())
}

func TestHandleSequentialThinking_BranchTracking(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)
	ctx := context.Background()

	first := map[string]any{
		"thought": "main", "thought_number": float64(1),
		"total_thoughts": float64(3), "next_thought_needed": true,
	}
	_, err := srv.handleSequentialThinking(ctx, callRequest("sequential_thinking", first), first)
	require.NoError(t, err)

	branch := map[string]any{
		"thought": "alternative", "thought_number": float64(2),
		"total_thoughts": float64(3), "next_thought_needed": true,
		"branch_from_thought": float64(1), "branch_id": "alt-1",
	}
	resp, err := srv.handleSequentialThinking(ctx, callRequest("sequential_thinking", branch), branch)
	require.NoError(t, err)

	assert.Equal(t, []string{"alt-1"}, resp.Branches)
	assert.Equal(t, 2, resp.ThoughtHistoryLength)
}

func TestHandleThoughtSummary(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)
	ctx := context.Background()

	summary, err := srv.handleThoughtSummary(ctx, callRequest("get_thought_summary", nil), nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalThoughts)

	args := map[string]any{
		"thought": "one", "thought_number": float64(1),
		"total_thoughts": float64(2), "next_thought_needed": true,
	}
	_, err = srv.handleSequentialThinking(ctx, callRequest("sequential_thinking", args), args)
	require.NoError(t, err)

	summary, err = srv.handleThoughtSummary(ctx, callRequest("get_thought_summary", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalThoughts)
	assert.Equal(t, 1, summary.LatestThoughtNumber)
	assert.Equal(t, 2, summary.LatestTotalEstimate)
}

func TestHandleClearHistory(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)
	ctx := context.Background()

	args := map[string]any{
		"thought": "one", "thought_number": float64(1),
		"total_thoughts": float64(1), "next_thought_needed": false,
	}
	_, err := srv.handleSequentialThinking(ctx, callRequest("sequential_thinking", args), args)
	require.NoError(t, err)

	resp, err := srv.handleClearHistory(ctx, callRequest("clear_thought_history", nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Thought history and branches cleared", resp.Message)
	assert.Zero(t, srv.store.HistoryLength())
}

func TestHandleSearchArxiv(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)

	result, err := srv.handleSearchArxiv(context.Background(),
		callRequest("search_arxiv", map[string]any{"query": "all:test"}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, "all:test", payload["query"])
	assert.Equal(t, float64(1), payload["total_results"])
	papers, ok := payload["papers"].([]any)
	require.True(t, ok)
	require.Len(t, papers, 1)
}

func TestHandleSearchArxiv_UpstreamFailure(t *testing.T) {
	srv := newTestServer(t, "", http.StatusInternalServerError)

	result, err := srv.handleSearchArxiv(context.Background(),
		callRequest("search_arxiv", map[string]any{"query": "all:test"}))
	require.NoError(t, err, "upstream failures are answered in-band")

	payload := resultJSON(t, result)
	assert.Contains(t, payload["error"], "Search failed")
	assert.Empty(t, payload["papers"])
}

func TestHandlePaperDetails_NotFound(t *testing.T) {
	srv := newTestServer(t, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`, http.StatusOK)

	result, err := srv.handlePaperDetails(context.Background(),
		callRequest("get_paper_details", map[string]any{"arxiv_id": "9999.00000"}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, "Paper 9999.00000 not found", payload["error"])
	assert.Equal(t, "9999.00000", payload["arxiv_id"])
}

func TestHandlePaperDetails(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)

	result, err := srv.handlePaperDetails(context.Background(),
		callRequest("get_paper_details", map[string]any{"arxiv_id": "2301.00001"}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, "2301.00001", payload["arxiv_id"])
	assert.Equal(t, "Test Paper", payload["title"])
}

func TestHandleAdvancedSearch_Defaults(t *testing.T) {
	srv := newTestServer(t, testFeed, http.StatusOK)

	result, err := srv.handleAdvancedSearch(context.Background(),
		callRequest("advanced_search", map[string]any{"author": "Lovelace"}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	params, ok := payload["query_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lovelace", params["author"])
	assert.Equal(t, float64(1), payload["total_results"])
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"s":     "value",
		"empty": "",
		"n":     float64(7),
	}

	assert.Equal(t, "value", argString(args, "s", "d"))
	assert.Equal(t, "d", argString(args, "empty", "d"))
	assert.Equal(t, "d", argString(args, "missing", "d"))
	assert.Equal(t, 7, argInt(args, "n", 3))
	assert.Equal(t, 3, argInt(args, "missing", 3))
}
