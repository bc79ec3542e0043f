package arxiv

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/ponderworks/ponder/pkg/domain"
)

// Atom feed types for the arXiv query API. Only the elements we consume
// are mapped; everything else is ignored by the decoder.

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID              string     `xml:"id"`
	Title           string     `xml:"title"`
	Summary         string     `xml:"summary"`
	Published       string     `xml:"published"`
	Updated         string     `xml:"updated"`
	Authors         []author   `xml:"author"`
	Categories      []category `xml:"category"`
	Links           []link     `xml:"link"`
	PrimaryCategory category   `xml:"primary_category"`
	JournalRef      string     `xml:"journal_ref"`
	DOI             string     `xml:"doi"`
	Comment         string     `xml:"comment"`
}

type author struct {
	Name string `xml:"name"`
}

type category struct {
	Term string `xml:"term,attr"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func parseFeed(data []byte) (*feed, error) {
	var f feed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// toPaper converts a feed entry into the domain model. The entry ID has the
// form http://arxiv.org/abs/<id>v<version>; the version suffix is split off
// so callers get a stable identifier plus an explicit version.
func (e *entry) toPaper() domain.Paper {
	rawID := e.ID
	if i := strings.LastIndex(rawID, "/"); i >= 0 {
		rawID = rawID[i+1:]
	}

	id, version := splitVersion(rawID)

	absURL := "https://arxiv.org/abs/" + id
	if version != "" {
		absURL += "v" + version
	}

	pdfURL := ""
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			pdfURL = l.Href
			break
		}
	}

	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	categories := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		categories = append(categories, c.Term)
	}

	p := domain.Paper{
		ArxivID:         id,
		Title:           cleanText(e.Title),
		Authors:         authors,
		Abstract:        cleanText(e.Summary),
		Published:       parseTime(e.Published),
		Updated:         parseTime(e.Updated),
		Categories:      categories,
		PDFURL:          pdfURL,
		ArxivURL:        absURL,
		PrimaryCategory: e.PrimaryCategory.Term,
		JournalRef:      cleanText(e.JournalRef),
		DOI:             e.DOI,
		Comment:         cleanText(e.Comment),
		Version:         version,
	}
	p.Summary = p.Byline()
	return p
}

// splitVersion separates "2301.00001v2" into ("2301.00001", "2").
// Old-style identifiers without a version suffix pass through unchanged.
func splitVersion(id string) (string, string) {
	i := strings.LastIndex(id, "v")
	if i <= 0 || i == len(id)-1 {
		return id, ""
	}
	for _, r := range id[i+1:] {
		if r < '0' || r > '9' {
			return id, ""
		}
	}
	return id[:i], id[i+1:]
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

// cleanText collapses the newline-continued whitespace arXiv embeds in
// titles and abstracts.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
