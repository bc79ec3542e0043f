package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ThoughtRecord is one validated step of a reasoning trace.
//
// Numbering is caller-asserted: ThoughtNumber is the caller's position claim,
// not an index assigned by the store. Optional targets (RevisesThought,
// BranchFromThought) are range-checked but never checked against the actual
// history; forward and dangling references are accepted.
type ThoughtRecord struct {
	Thought           string `json:"thought" mapstructure:"thought" validate:"required"`
	ThoughtNumber     int    `json:"thought_number" mapstructure:"thought_number" validate:"required,gte=1"`
	TotalThoughts     int    `json:"total_thoughts" mapstructure:"total_thoughts" validate:"required,gte=1"`
	NextThoughtNeeded bool   `json:"next_thought_needed" mapstructure:"next_thought_needed"`

	IsRevision        *bool   `json:"is_revision,omitempty" mapstructure:"is_revision"`
	RevisesThought    *int    `json:"revises_thought,omitempty" mapstructure:"revises_thought" validate:"omitempty,gte=1"`
	BranchFromThought *int    `json:"branch_from_thought,omitempty" mapstructure:"branch_from_thought" validate:"omitempty,gte=1"`
	BranchID          *string `json:"branch_id,omitempty" mapstructure:"branch_id" validate:"omitempty,min=1"`
	NeedsMoreThoughts *bool   `json:"needs_more_thoughts,omitempty" mapstructure:"needs_more_thoughts"`
}

// IsBranch reports whether this record registers into a named branch.
// Both the divergence point and the identifier must be present; one without
// the other is accepted but registers nothing.
func (t *ThoughtRecord) IsBranch() bool {
	return t.BranchFromThought != nil && t.BranchID != nil
}

// Revision reports whether the record is flagged as revising earlier thinking.
func (t *ThoughtRecord) Revision() bool {
	return t.IsRevision != nil && *t.IsRevision
}

// thoughtValidate is the shared validator for thought payloads.
var thoughtValidate = validator.New()

// fieldAliases maps every accepted key spelling to its canonical
// snake_case name. Applied once at the boundary so callers using either
// convention decode identically.
var fieldAliases = map[string]string{
	"thought":             "thought",
	"thoughtnumber":       "thought_number",
	"thought_number":      "thought_number",
	"totalthoughts":       "total_thoughts",
	"total_thoughts":      "total_thoughts",
	"nextthoughtneeded":   "next_thought_needed",
	"next_thought_needed": "next_thought_needed",
	"isrevision":          "is_revision",
	"is_revision":         "is_revision",
	"revisesthought":      "revises_thought",
	"revises_thought":     "revises_thought",
	"branchfromthought":   "branch_from_thought",
	"branch_from_thought": "branch_from_thought",
	"branchid":            "branch_id",
	"branch_id":           "branch_id",
	"needsmorethoughts":   "needs_more_thoughts",
	"needs_more_thoughts": "needs_more_thoughts",
}

// requiredFields must be present in every payload. Presence is checked on
// the normalized map because a missing boolean is indistinguishable from an
// explicit false after decoding.
var requiredFields = []string{"thought", "thought_number", "total_thoughts", "next_thought_needed"}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// CanonicalKey converts a payload key to its canonical snake_case form.
// Known aliases hit the table directly; anything else falls back to a
// generic camelCase-to-snake_case conversion.
func CanonicalKey(key string) string {
	lower := strings.ToLower(key)
	if canonical, ok := fieldAliases[lower]; ok {
		return canonical
	}
	return strings.ToLower(camelBoundary.ReplaceAllString(key, "${1}_${2}"))
}

// DecodeThought normalizes and validates a raw tool payload into a
// ThoughtRecord. It is a pure function: on failure it returns a
// *ValidationError describing the first violated constraint and no record.
func DecodeThought(payload map[string]any) (*ThoughtRecord, error) {
	normalized := make(map[string]any, len(payload))
	for key, value := range payload {
		if value == nil {
			continue
		}
		normalized[CanonicalKey(key)] = value
	}

	for _, key := range requiredFields {
		if _, ok := normalized[key]; !ok {
			return nil, &ValidationError{Reason: fmt.Sprintf("missing required field: %s", key)}
		}
	}

	var rec ThoughtRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: false,
		ErrorUnused:      false,
	})
	if err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("decoder setup failed: %v", err)}
	}
	if err := decoder.Decode(normalized); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid thought data: %v", err)}
	}

	if err := thoughtValidate.Struct(&rec); err != nil {
		return nil, &ValidationError{Reason: describeViolation(err)}
	}

	return &rec, nil
}

// describeViolation turns the first validator violation into a
// human-readable message. The message is surfaced verbatim to the caller
// in the failure response, so it names payload fields, not Go fields.
func describeViolation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return fmt.Sprintf("invalid thought data: %v", err)
	}

	first := errs[0]
	field := CanonicalKey(first.Field())
	switch first.Tag() {
	case "required":
		return fmt.Sprintf("missing required field: %s", field)
	case "gte":
		return fmt.Sprintf("field %s must be >= %s", field, first.Param())
	case "min":
		return fmt.Sprintf("field %s must not be empty", field)
	default:
		return fmt.Sprintf("field %s failed constraint %q", field, first.Tag())
	}
}
