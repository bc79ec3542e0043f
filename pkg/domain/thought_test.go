package domain_test

import (
	"testing"

	"github.com/ponderworks/ponder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"thought":             "first step",
		"thought_number":      1,
		"total_thoughts":      3,
		"next_thought_needed": true,
	}
}

func TestDecodeThought_SnakeCase(t *testing.T) {
	rec, err := domain.DecodeThought(validPayload())
	require.NoError(t, err)

	assert.Equal(t, "first step", rec.Thought)
	assert.Equal(t, 1, rec.ThoughtNumber)
	assert.Equal(t, 3, rec.TotalThoughts)
	assert.True(t, rec.NextThoughtNeeded)
	assert.Nil(t, rec.IsRevision)
	assert.Nil(t, rec.BranchID)
}

func TestDecodeThought_CamelCase(t *testing.T) {
	rec, err := domain.DecodeThought(map[string]any{
		"thought":           "camel spelling",
		"thoughtNumber":     2,
		"totalThoughts":     5,
		"nextThoughtNeeded": false,
		"isRevision":        true,
		"revisesThought":    1,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, rec.ThoughtNumber)
	assert.Equal(t, 5, rec.TotalThoughts)
	assert.False(t, rec.NextThoughtNeeded)
	assert.True(t, rec.Revision())
	require.NotNil(t, rec.RevisesThought)
	assert.Equal(t, 1, *rec.RevisesThought)
}

func TestDecodeThought_MixedSpellings(t *testing.T) {
	rec, err := domain.DecodeThought(map[string]any{
		"thought":             "mixed",
		"thoughtNumber":       4,
		"total_thoughts":      4,
		"next_thought_needed": true,
		"branchFromThought":   2,
		"branch_id":           "alt",
	})
	require.NoError(t, err)

	assert.True(t, rec.IsBranch())
	assert.Equal(t, "alt", *rec.BranchID)
	assert.Equal(t, 2, *rec.BranchFromThought)
}

func TestDecodeThought_MissingRequired(t *testing.T) {
	cases := []struct {
		name   string
		drop   string
		reason string
	}{
		{"no thought", "thought", "missing required field: thought"},
		{"no number", "thought_number", "missing required field: thought_number"},
		{"no total", "total_thoughts", "missing required field: total_thoughts"},
		{"no continuation flag", "next_thought_needed", "missing required field: next_thought_needed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validPayload()
			delete(payload, tc.drop)

			rec, err := domain.DecodeThought(payload)
			assert.Nil(t, rec)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.reason, verr.Reason)
		})
	}
}

func TestDecodeThought_NilValueIsMissing(t *testing.T) {
	payload := validPayload()
	payload["thought"] = nil

	_, err := domain.DecodeThought(payload)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "missing required field: thought", verr.Reason)
}

func TestDecodeThought_RangeViolations(t *testing.T) {
	t.Run("thought_number below one", func(t *testing.T) {
		payload := validPayload()
		payload["thought_number"] = 0

		_, err := domain.DecodeThought(payload)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		// zero trips the presence check on int fields
		assert.Contains(t, verr.Reason, "thought_number")
	})

	t.Run("negative total", func(t *testing.T) {
		payload := validPayload()
		payload["total_thoughts"] = -2

		_, err := domain.DecodeThought(payload)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "field total_thoughts must be >= 1", verr.Reason)
	})

	t.Run("revises_thought below one", func(t *testing.T) {
		payload := validPayload()
		payload["revises_thought"] = 0

		_, err := domain.DecodeThought(payload)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "field revises_thought must be >= 1", verr.Reason)
	})

	t.Run("empty branch_id", func(t *testing.T) {
		payload := validPayload()
		payload["branch_from_thought"] = 1
		payload["branch_id"] = ""

		_, err := domain.DecodeThought(payload)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "field branch_id must not be empty", verr.Reason)
	})
}

func TestDecodeThought_TypeMismatch(t *testing.T) {
	payload := validPayload()
	payload["thought_number"] = "one"

	_, err := domain.DecodeThought(payload)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "invalid thought data")
}

func TestDecodeThought_JSONNumbers(t *testing.T) {
	// JSON decoding hands numbers over as float64
	rec, err := domain.DecodeThought(map[string]any{
		"thought":             "numeric",
		"thought_number":      float64(2),
		"total_thoughts":      float64(4),
		"next_thought_needed": true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ThoughtNumber)
	assert.Equal(t, 4, rec.TotalThoughts)
}

func TestDecodeThought_UnknownKeysIgnored(t *testing.T) {
	payload := validPayload()
	payload["confidence"] = 0.9

	_, err := domain.DecodeThought(payload)
	assert.NoError(t, err)
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "thought_number", domain.CanonicalKey("thoughtNumber"))
	assert.Equal(t, "thought_number", domain.CanonicalKey("thought_number"))
	assert.Equal(t, "branch_from_thought", domain.CanonicalKey("branchFromThought"))
	assert.Equal(t, "some_other_key", domain.CanonicalKey("someOtherKey"))
}

func TestIsBranch_RequiresBothFields(t *testing.T) {
	from := 2
	id := "alt"

	rec := domain.ThoughtRecord{BranchFromThought: &from}
	assert.False(t, rec.IsBranch())

	rec = domain.ThoughtRecord{BranchID: &id}
	assert.False(t, rec.IsBranch())

	rec = domain.ThoughtRecord{BranchFromThought: &from, BranchID: &id}
	assert.True(t, rec.IsBranch())
}
