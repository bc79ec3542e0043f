package arxiv

import (
	"fmt"
	"strings"
	"time"
)

// Result caps enforced per operation. Simple searches are clamped to 50;
// the multi-field advanced search is allowed up to 200.
const (
	MaxSimpleResults   = 50
	MaxAdvancedResults = 200
)

// SortBy names the upstream sort criteria.
type SortBy string

const (
	SortRelevance       SortBy = "relevance"
	SortSubmittedDate   SortBy = "submittedDate"
	SortLastUpdatedDate SortBy = "lastUpdatedDate"
)

// normalizeSort maps a caller-supplied criterion to a value the API
// accepts, defaulting to relevance for anything unrecognized.
func normalizeSort(sortBy string) SortBy {
	switch SortBy(sortBy) {
	case SortSubmittedDate:
		return SortSubmittedDate
	case SortLastUpdatedDate:
		return SortLastUpdatedDate
	default:
		return SortRelevance
	}
}

// normalizeOrder maps "asc"/"desc" to the API's ascending/descending.
func normalizeOrder(order string) string {
	if order == "asc" {
		return "ascending"
	}
	return "descending"
}

func clamp(n, ceiling int) int {
	if n <= 0 {
		return 1
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

// AdvancedQuery describes a multi-field search. Empty fields are omitted
// from the generated query; a fully empty query degrades to the wildcard.
type AdvancedQuery struct {
	Query           string
	Author          string
	Title           string
	Abstract        string
	Category        string
	ExcludeCategory string
	StartDate       string // YYYYMMDD
	EndDate         string // YYYYMMDD
	MaxResults      int
	SortBy          string
	SortOrder       string
}

// build assembles the arXiv query-syntax string.
func (q *AdvancedQuery) build() string {
	var parts []string
	if q.Query != "" {
		parts = append(parts, q.Query)
	}
	if q.Author != "" {
		parts = append(parts, "au:"+q.Author)
	}
	if q.Title != "" {
		parts = append(parts, "ti:"+q.Title)
	}
	if q.Abstract != "" {
		parts = append(parts, "abs:"+q.Abstract)
	}
	if q.Category != "" {
		parts = append(parts, "cat:"+q.Category)
	}
	if q.ExcludeCategory != "" {
		parts = append(parts, "ANDNOT cat:"+q.ExcludeCategory)
	}

	switch {
	case q.StartDate != "" && q.EndDate != "":
		parts = append(parts, fmt.Sprintf("submittedDate:[%s TO %s]", q.StartDate, q.EndDate))
	case q.StartDate != "":
		parts = append(parts, fmt.Sprintf("submittedDate:[%s TO *]", q.StartDate))
	case q.EndDate != "":
		parts = append(parts, fmt.Sprintf("submittedDate:[* TO %s]", q.EndDate))
	}

	if len(parts) == 0 {
		return "all:*"
	}
	return strings.Join(parts, " AND ")
}

// dateRangeQuery builds a submittedDate window ending now.
func dateRangeQuery(prefix string, daysBack int) string {
	end := time.Now()
	start := end.AddDate(0, 0, -daysBack)
	rangeExpr := fmt.Sprintf("submittedDate:[%s TO %s]", start.Format("20060102"), end.Format("20060102"))
	if prefix == "" {
		return rangeExpr
	}
	return prefix + " AND " + rangeExpr
}

// phraseQuery wraps a phrase in quotes and routes it to a search field.
func phraseQuery(phrase, field string) string {
	quoted := `"` + phrase + `"`
	switch field {
	case "title":
		return "ti:" + quoted
	case "abstract":
		return "abs:" + quoted
	case "author":
		return "au:" + quoted
	default:
		return quoted
	}
}
