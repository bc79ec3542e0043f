package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ponderworks/ponder/internal/metrics"
	"github.com/ponderworks/ponder/pkg/arxiv"
	"github.com/ponderworks/ponder/pkg/domain"
)

func (s *Server) registerArxivTools() {
	// TOOL: search_arxiv
	s.mcpServer.AddTool(mcp.NewTool("search_arxiv",
		mcp.WithDescription("Search ArXiv for papers matching the query. The query can include authors, keywords, and categories."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results (default: 10, max: 50)")),
		mcp.WithString("sort_by", mcp.Description("Sort criteria: 'relevance', 'submittedDate', 'lastUpdatedDate'")),
		mcp.WithString("sort_order", mcp.Description("Sort order: 'asc' or 'desc'")),
	), s.handleSearchArxiv)

	// TOOL: get_paper_details
	s.mcpServer.AddTool(mcp.NewTool("get_paper_details",
		mcp.WithDescription("Get detailed information about a specific ArXiv paper."),
		mcp.WithString("arxiv_id", mcp.Required(), mcp.Description("ArXiv paper ID (e.g., '2301.00001' or '2301.00001v1')")),
	), s.handlePaperDetails)

	// TOOL: get_recent_papers
	s.mcpServer.AddTool(mcp.NewTool("get_recent_papers",
		mcp.WithDescription("Get recent papers from a specific ArXiv category."),
		mcp.WithString("category", mcp.Description("ArXiv category (e.g., 'cs.AI', 'cs.LG', 'math.CO'; default: cs.AI)")),
		mcp.WithNumber("days_back", mcp.Description("Number of days to look back (default: 7)")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results (default: 20, max: 50)")),
	), s.handleRecentPapers)

	// TOOL: get_papers_by_author
	s.mcpServer.AddTool(mcp.NewTool("get_papers_by_author",
		mcp.WithDescription("Get papers by a specific author."),
		mcp.WithString("author_name", mcp.Required(), mcp.Description("Name of the author to search for")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results (default: 10, max: 50)")),
	), s.handlePapersByAuthor)

	// TOOL: get_trending_categories
	s.mcpServer.AddTool(mcp.NewTool("get_trending_categories",
		mcp.WithDescription("Get trending ArXiv categories based on recent paper counts."),
		mcp.WithNumber("days_back", mcp.Description("Number of days to look back (default: 30)")),
		mcp.WithNumber("min_papers", mcp.Description("Minimum paper count for a category to be trending (default: 5)")),
	), s.handleTrendingCategories)

	// TOOL: advanced_search
	s.mcpServer.AddTool(mcp.NewTool("advanced_search",
		mcp.WithDescription("Advanced search with multiple field support using ArXiv API query syntax."),
		mcp.WithString("query", mcp.Description("General search query")),
		mcp.WithString("author", mcp.Description("Author name")),
		mcp.WithString("title", mcp.Description("Title keywords")),
		mcp.WithString("abstract", mcp.Description("Abstract keywords")),
		mcp.WithString("category", mcp.Description("ArXiv category to require")),
		mcp.WithString("exclude_category", mcp.Description("ArXiv category to exclude")),
		mcp.WithString("start_date", mcp.Description("Start date in YYYYMMDD format")),
		mcp.WithString("end_date", mcp.Description("End date in YYYYMMDD format")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results (default: 10, max: 200)")),
		mcp.WithString("sort_by", mcp.Description("Sort criteria: 'relevance', 'submittedDate', 'lastUpdatedDate'")),
		mcp.WithString("sort_order", mcp.Description("Sort order: 'asc' or 'desc'")),
	), s.handleAdvancedSearch)

	// TOOL: get_paper_by_version
	s.mcpServer.AddTool(mcp.NewTool("get_paper_by_version",
		mcp.WithDescription("Get a specific version of an ArXiv paper."),
		mcp.WithString("arxiv_id", mcp.Required(), mcp.Description("ArXiv paper ID without version suffix")),
		mcp.WithNumber("version", mcp.Required(), mcp.Description("Version number (e.g., 1, 2, 3)")),
	), s.handlePaperByVersion)

	// TOOL: search_by_phrase
	s.mcpServer.AddTool(mcp.NewTool("search_by_phrase",
		mcp.WithDescription("Search for an exact phrase in a specific field."),
		mcp.WithString("phrase", mcp.Required(), mcp.Description("Exact phrase to search for")),
		mcp.WithString("field", mcp.Description("Field to search in: 'all', 'title', 'abstract', 'author' (default: all)")),
		mcp.WithNumber("max_results", mcp.Description("Maximum number of results (default: 10, max: 50)")),
	), s.handleSearchByPhrase)
}

// -- Argument helpers --

func argString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// argInt reads a numeric argument. JSON numbers arrive as float64.
func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// observe records metrics for one arXiv tool call.
func (s *Server) observe(tool string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.SearchRequests.WithLabelValues(tool, outcome).Inc()
	metrics.SearchDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

// jsonResult marshals v into a text tool result. Upstream failures are
// already folded into v by the callers, so marshalling is the only way
// this can fail.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to encode response: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// -- Handlers --
//
// Every handler degrades to an error envelope with an empty result set
// instead of a hard tool fault. Upstream failures are logged and reported
// in-band, never propagated as protocol errors.

func (s *Server) handleSearchArxiv(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	query := argString(args, "query", "")

	start := time.Now()
	papers, err := s.papers.Search(ctx, query,
		argInt(args, "max_results", 10),
		argString(args, "sort_by", "relevance"),
		argString(args, "sort_order", "desc"),
	)
	s.observe("search_arxiv", start, err)
	if err != nil {
		s.logger.Error("arxiv search failed", "query", query, "error", err)
		return jsonResult(map[string]any{
			"error":  "Search failed: " + err.Error(),
			"query":  query,
			"papers": []domain.Paper{},
		})
	}

	return jsonResult(map[string]any{
		"query":         query,
		"total_results": len(papers),
		"papers":        papers,
	})
}

func (s *Server) handlePaperDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	arxivID := argString(args, "arxiv_id", "")

	start := time.Now()
	paper, err := s.papers.PaperByID(ctx, arxivID)
	s.observe("get_paper_details", start, err)
	if err != nil {
		if errors.Is(err, domain.ErrPaperNotFound) {
			return jsonResult(map[string]any{
				"error":    "Paper " + arxivID + " not found",
				"arxiv_id": arxivID,
			})
		}
		s.logger.Error("paper lookup failed", "arxiv_id", arxivID, "error", err)
		return jsonResult(map[string]any{
			"error":    "Failed to fetch paper details: " + err.Error(),
			"arxiv_id": arxivID,
		})
	}

	return jsonResult(paper)
}

func (s *Server) handleRecentPapers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	category := argString(args, "category", "cs.AI")
	daysBack := argInt(args, "days_back", 7)

	start := time.Now()
	papers, err := s.papers.RecentPapers(ctx, category, daysBack, argInt(args, "max_results", 20))
	s.observe("get_recent_papers", start, err)
	if err != nil {
		s.logger.Error("recent papers query failed", "category", category, "error", err)
		return jsonResult(map[string]any{
			"error":    "Failed to fetch recent papers: " + err.Error(),
			"category": category,
			"papers":   []domain.Paper{},
		})
	}

	return jsonResult(map[string]any{
		"category":      category,
		"days_back":     daysBack,
		"total_results": len(papers),
		"papers":        papers,
	})
}

func (s *Server) handlePapersByAuthor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	author := argString(args, "author_name", "")

	start := time.Now()
	papers, err := s.papers.PapersByAuthor(ctx, author, argInt(args, "max_results", 10))
	s.observe("get_papers_by_author", start, err)
	if err != nil {
		s.logger.Error("author query failed", "author", author, "error", err)
		return jsonResult(map[string]any{
			"error":  "Failed to fetch papers by author: " + err.Error(),
			"author": author,
			"papers": []domain.Paper{},
		})
	}

	return jsonResult(map[string]any{
		"author":        author,
		"total_results": len(papers),
		"papers":        papers,
	})
}

func (s *Server) handleTrendingCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	daysBack := argInt(args, "days_back", 30)
	minPapers := argInt(args, "min_papers", 5)

	start := time.Now()
	trending := s.papers.TrendingCategories(ctx, daysBack, minPapers)
	s.observe("get_trending_categories", start, nil)

	return jsonResult(map[string]any{
		"days_back":           daysBack,
		"min_papers":          minPapers,
		"trending_categories": trending,
	})
}

func (s *Server) handleAdvancedSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	q := arxiv.AdvancedQuery{
		Query:           argString(args, "query", ""),
		Author:          argString(args, "author", ""),
		Title:           argString(args, "title", ""),
		Abstract:        argString(args, "abstract", ""),
		Category:        argString(args, "category", ""),
		ExcludeCategory: argString(args, "exclude_category", ""),
		StartDate:       argString(args, "start_date", ""),
		EndDate:         argString(args, "end_date", ""),
		MaxResults:      argInt(args, "max_results", 10),
		SortBy:          argString(args, "sort_by", "relevance"),
		SortOrder:       argString(args, "sort_order", "desc"),
	}

	queryParams := map[string]string{
		"query":            q.Query,
		"author":           q.Author,
		"title":            q.Title,
		"abstract":         q.Abstract,
		"category":         q.Category,
		"exclude_category": q.ExcludeCategory,
		"start_date":       q.StartDate,
		"end_date":         q.EndDate,
	}

	start := time.Now()
	papers, err := s.papers.AdvancedSearch(ctx, q)
	s.observe("advanced_search", start, err)
	if err != nil {
		s.logger.Error("advanced search failed", "error", err)
		return jsonResult(map[string]any{
			"error":        "Advanced search failed: " + err.Error(),
			"query_params": queryParams,
			"papers":       []domain.Paper{},
		})
	}

	return jsonResult(map[string]any{
		"query_params":  queryParams,
		"total_results": len(papers),
		"papers":        papers,
	})
}

func (s *Server) handlePaperByVersion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	arxivID := argString(args, "arxiv_id", "")
	version := argInt(args, "version", 1)

	start := time.Now()
	paper, err := s.papers.PaperByVersion(ctx, arxivID, version)
	s.observe("get_paper_by_version", start, err)
	if err != nil {
		if errors.Is(err, domain.ErrPaperNotFound) {
			return jsonResult(map[string]any{
				"error":    "Paper " + arxivID + " not found at requested version",
				"arxiv_id": arxivID,
				"version":  version,
			})
		}
		s.logger.Error("version lookup failed", "arxiv_id", arxivID, "version", version, "error", err)
		return jsonResult(map[string]any{
			"error":    "Failed to fetch paper version: " + err.Error(),
			"arxiv_id": arxivID,
			"version":  version,
		})
	}

	return jsonResult(paper)
}

func (s *Server) handleSearchByPhrase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	phrase := argString(args, "phrase", "")
	field := argString(args, "field", "all")

	start := time.Now()
	papers, err := s.papers.SearchByPhrase(ctx, phrase, field, argInt(args, "max_results", 10))
	s.observe("search_by_phrase", start, err)
	if err != nil {
		s.logger.Error("phrase search failed", "phrase", phrase, "error", err)
		return jsonResult(map[string]any{
			"error":  "Phrase search failed: " + err.Error(),
			"phrase": phrase,
			"field":  field,
			"papers": []domain.Paper{},
		})
	}

	return jsonResult(map[string]any{
		"phrase":        phrase,
		"field":         field,
		"total_results": len(papers),
		"papers":        papers,
	})
}
