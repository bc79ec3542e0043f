package thinking

// Summary is a read-only projection of the current session state.
type Summary struct {
	TotalThoughts       int      `json:"total_thoughts"`
	Branches            []string `json:"branches"`
	BranchCount         int      `json:"branch_count"`
	LatestThoughtNumber int      `json:"latest_thought_number"`
	LatestTotalEstimate int      `json:"latest_total_estimate"`
}

// Summarize derives the session summary from the current state. It never
// mutates the store and is safe to call at any time, including on an empty
// session, where the latest-number fields are zero.
func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := Summary{
		TotalThoughts: len(s.history),
		Branches:      append([]string{}, s.branchOrder...),
		BranchCount:   len(s.branches),
	}
	if len(s.history) > 0 {
		last := s.history[len(s.history)-1]
		summary.LatestThoughtNumber = last.ThoughtNumber
		summary.LatestTotalEstimate = last.TotalThoughts
	}
	return summary
}
