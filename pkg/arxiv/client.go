package arxiv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ponderworks/ponder/pkg/domain"
)

// DefaultBaseURL is the arXiv query API endpoint.
const DefaultBaseURL = "https://export.arxiv.org/api/query"

// Client queries the arXiv Atom API. It is stateless apart from the
// optional response cache; every call takes a context and performs one or
// two HTTP round trips.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache attaches a response cache.
func WithCache(cache *Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithClientLogger sets the structured logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request holds the parameters of one API call.
type request struct {
	searchQuery string
	idList      []string
	maxResults  int
	sortBy      SortBy
	sortOrder   string
}

func (r *request) encode() string {
	v := url.Values{}
	if r.searchQuery != "" {
		v.Set("search_query", r.searchQuery)
	}
	if len(r.idList) > 0 {
		v.Set("id_list", strings.Join(r.idList, ","))
	}
	v.Set("start", "0")
	v.Set("max_results", strconv.Itoa(r.maxResults))
	if r.sortBy != "" {
		v.Set("sortBy", string(r.sortBy))
		v.Set("sortOrder", r.sortOrder)
	}
	return v.Encode()
}

// fetch executes one API call, consulting the cache first when configured.
// Cache failures are logged and ignored; the upstream response wins.
func (c *Client) fetch(ctx context.Context, req *request) ([]domain.Paper, error) {
	query := req.encode()

	if c.cache != nil {
		if body, hit, err := c.cache.Get(ctx, query); err != nil {
			c.logger.Warn("arxiv cache read failed", "err", err)
		} else if hit {
			c.logger.Debug("arxiv cache hit", "query", query)
			return decodePapers(body)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build arxiv request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("arxiv request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read arxiv response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, query, body); err != nil {
			c.logger.Warn("arxiv cache write failed", "err", err)
		}
	}

	return decodePapers(body)
}

func decodePapers(body []byte) ([]domain.Paper, error) {
	f, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arxiv feed: %w", err)
	}
	papers := make([]domain.Paper, 0, len(f.Entries))
	for i := range f.Entries {
		papers = append(papers, f.Entries[i].toPaper())
	}
	return papers, nil
}

// Search returns papers matching a free-form query. Results are capped at
// MaxSimpleResults regardless of the caller's ask.
func (c *Client) Search(ctx context.Context, query string, maxResults int, sortBy, sortOrder string) ([]domain.Paper, error) {
	return c.fetch(ctx, &request{
		searchQuery: query,
		maxResults:  clamp(maxResults, MaxSimpleResults),
		sortBy:      normalizeSort(sortBy),
		sortOrder:   normalizeOrder(sortOrder),
	})
}

// PaperByID fetches a single paper by arXiv identifier, with or without a
// version suffix. Returns domain.ErrPaperNotFound when nothing matches.
func (c *Client) PaperByID(ctx context.Context, arxivID string) (*domain.Paper, error) {
	papers, err := c.fetch(ctx, &request{idList: []string{arxivID}, maxResults: 1})
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 || papers[0].ArxivID == "" {
		return nil, domain.ErrPaperNotFound
	}
	return &papers[0], nil
}

// PaperByVersion fetches a specific version of a paper.
func (c *Client) PaperByVersion(ctx context.Context, arxivID string, version int) (*domain.Paper, error) {
	return c.PaperByID(ctx, fmt.Sprintf("%sv%d", arxivID, version))
}

// RecentPapers returns papers submitted to a category within the last
// daysBack days, newest first.
func (c *Client) RecentPapers(ctx context.Context, category string, daysBack, maxResults int) ([]domain.Paper, error) {
	return c.fetch(ctx, &request{
		searchQuery: dateRangeQuery("cat:"+category, daysBack),
		maxResults:  clamp(maxResults, MaxSimpleResults),
		sortBy:      SortSubmittedDate,
		sortOrder:   "descending",
	})
}

// PapersByAuthor returns papers by an author, newest first.
func (c *Client) PapersByAuthor(ctx context.Context, author string, maxResults int) ([]domain.Paper, error) {
	return c.fetch(ctx, &request{
		searchQuery: "au:" + author,
		maxResults:  clamp(maxResults, MaxSimpleResults),
		sortBy:      SortSubmittedDate,
		sortOrder:   "descending",
	})
}

// CategoryCount pairs a category with the number of recent papers in it.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// TrendingCategories aggregates category frequencies over recent
// submissions. Upstream failure degrades: first a narrower 7-day window is
// tried, then an empty result is returned. Both fallbacks are logged, not
// propagated.
func (c *Client) TrendingCategories(ctx context.Context, daysBack, minPapers int) []CategoryCount {
	papers, err := c.fetch(ctx, &request{
		searchQuery: dateRangeQuery("", daysBack),
		maxResults:  500,
		sortBy:      SortSubmittedDate,
		sortOrder:   "descending",
	})
	if err != nil {
		c.logger.Warn("trending query failed, retrying with 7-day window", "err", err)
		papers, err = c.fetch(ctx, &request{
			searchQuery: dateRangeQuery("", 7),
			maxResults:  200,
			sortBy:      SortSubmittedDate,
			sortOrder:   "descending",
		})
		if err != nil {
			c.logger.Error("trending fallback query failed", "err", err)
			return nil
		}
	}

	counts := make(map[string]int)
	for _, p := range papers {
		for _, cat := range p.Categories {
			counts[cat]++
		}
	}

	trending := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		if n >= minPapers {
			trending = append(trending, CategoryCount{Category: cat, Count: n})
		}
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].Category < trending[j].Category
	})
	return trending
}

// AdvancedSearch runs a multi-field query. Results are capped at
// MaxAdvancedResults.
func (c *Client) AdvancedSearch(ctx context.Context, q AdvancedQuery) ([]domain.Paper, error) {
	return c.fetch(ctx, &request{
		searchQuery: q.build(),
		maxResults:  clamp(q.MaxResults, MaxAdvancedResults),
		sortBy:      normalizeSort(q.SortBy),
		sortOrder:   normalizeOrder(q.SortOrder),
	})
}

// SearchByPhrase searches for an exact quoted phrase in one field
// (all, title, abstract, author).
func (c *Client) SearchByPhrase(ctx context.Context, phrase, field string, maxResults int) ([]domain.Paper, error) {
	return c.fetch(ctx, &request{
		searchQuery: phraseQuery(phrase, field),
		maxResults:  clamp(maxResults, MaxSimpleResults),
		sortBy:      SortRelevance,
		sortOrder:   "descending",
	})
}
