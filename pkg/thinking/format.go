package thinking

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/ponderworks/ponder/pkg/domain"
)

// Formatter renders a single thought record as a framed diagnostic block.
// It is purely observational: rendering never affects stored state or
// returned values, and the whole formatter may be left unattached.
type Formatter struct {
	sink    io.Writer
	profile termenv.Profile
}

// NewFormatter creates a formatter writing to sink. Color capability is
// detected once at construction.
func NewFormatter(sink io.Writer) *Formatter {
	return &Formatter{
		sink:    sink,
		profile: termenv.ColorProfile(),
	}
}

// Render writes the framed block for one record.
func (f *Formatter) Render(rec *domain.ThoughtRecord) {
	var prefix, context string
	switch {
	case rec.Revision():
		prefix = f.colored("🔄 Revision", "#e879f9")
		if rec.RevisesThought != nil {
			context = fmt.Sprintf(" (revising thought %d)", *rec.RevisesThought)
		}
	case rec.BranchFromThought != nil:
		prefix = f.colored("🌿 Branch", "#a3e635")
		id := ""
		if rec.BranchID != nil {
			id = *rec.BranchID
		}
		context = fmt.Sprintf(" (from thought %d, ID: %s)", *rec.BranchFromThought, id)
	default:
		prefix = f.colored("💭 Thought", "#818cf8")
	}

	// Widths are computed on the uncolored header so ANSI escapes don't
	// skew the frame.
	plainHeader := fmt.Sprintf("%s %d/%d%s", stripStyle(prefix), rec.ThoughtNumber, rec.TotalThoughts, context)
	header := fmt.Sprintf("%s %d/%d%s", prefix, rec.ThoughtNumber, rec.TotalThoughts, context)

	width := len([]rune(plainHeader))
	if w := len([]rune(rec.Thought)); w > width {
		width = w
	}
	width += 2

	border := strings.Repeat("─", width)
	pad := func(s string, visible int) string {
		return s + strings.Repeat(" ", width-2-visible)
	}

	fmt.Fprintf(f.sink, "\n┌%s┐\n│ %s │\n├%s┤\n│ %s │\n└%s┘\n",
		border,
		pad(header, len([]rune(plainHeader))),
		border,
		pad(rec.Thought, len([]rune(rec.Thought))),
		border,
	)
}

func (f *Formatter) colored(s, hex string) string {
	return termenv.String(s).Foreground(f.profile.Color(hex)).String()
}

// stripStyle removes ANSI styling for width calculations.
func stripStyle(s string) string {
	if i := strings.IndexByte(s, 0x1b); i < 0 {
		return s
	}
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == 0x1b:
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
