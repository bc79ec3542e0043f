package domain

import (
	"strings"
	"time"
)

// Paper is the bibliographic record returned by the arXiv collaborator.
type Paper struct {
	ArxivID    string    `json:"arxiv_id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Abstract   string    `json:"abstract"`
	Published  time.Time `json:"published"`
	Updated    time.Time `json:"updated"`
	Categories []string  `json:"categories"`
	PDFURL     string    `json:"pdf_url"`
	ArxivURL   string    `json:"arxiv_url"`
	Summary    string    `json:"summary"`

	PrimaryCategory string `json:"primary_category,omitempty"`
	JournalRef      string `json:"journal_ref,omitempty"`
	DOI             string `json:"doi,omitempty"`
	Comment         string `json:"comment,omitempty"`
	Version         string `json:"version,omitempty"`
}

// Byline returns the one-line "Title by Authors" summary used in tool
// output. Author lists longer than three names are truncated.
func (p *Paper) Byline() string {
	authors := p.Authors
	suffix := ""
	if len(authors) > 3 {
		authors = authors[:3]
		suffix = "..."
	}
	return p.Title + " by " + strings.Join(authors, ", ") + suffix
}
