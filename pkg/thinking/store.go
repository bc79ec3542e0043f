package thinking

import (
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/ponderworks/ponder/pkg/domain"
)

// Store is the stateful core of the sequential thinking tracker.
//
// It owns an append-only history of thought records plus an index of named
// branches. Mutations (Record, Clear) are mutually exclusive; readers always
// observe a fully-applied state and receive defensive copies, so callers can
// never mutate the live session through a returned value.
type Store struct {
	mu          sync.Mutex
	sessionID   string
	history     []domain.ThoughtRecord
	branches    map[string][]domain.ThoughtRecord
	branchOrder []string

	logger    *slog.Logger
	formatter *Formatter
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger. Defaults to a no-op logger so the
// core carries no ambient dependency on process-wide logging state.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithFormatter attaches a diagnostic formatter. Each recorded thought is
// rendered to the formatter's sink; storage and return values are unaffected.
func WithFormatter(f *Formatter) Option {
	return func(s *Store) {
		s.formatter = f
	}
}

// NewStore creates an empty session. History and branches start empty and
// live for the lifetime of the process; there is no persistence.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessionID: uuid.NewString(),
		branches:  make(map[string][]domain.ThoughtRecord),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("thinking session initialized", "session_id", s.sessionID)
	return s
}

// SessionID returns the identifier assigned to this session at construction.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Snapshot is the state view returned after each successful Record call.
type Snapshot struct {
	ThoughtNumber        int      `json:"thought_number"`
	TotalThoughts        int      `json:"total_thoughts"`
	NextThoughtNeeded    bool     `json:"next_thought_needed"`
	Branches             []string `json:"branches"`
	ThoughtHistoryLength int      `json:"thought_history_length"`
}

// Record appends a validated thought to the history and, when the record
// names both a divergence point and a branch identifier, to that branch.
//
// The caller's total estimate is treated as a floor: if the thought number
// exceeds it, the stored total is raised to match before storage. Record
// never fails on a validated ThoughtRecord.
func (s *Store) Record(rec *domain.ThoughtRecord) Snapshot {
	stored := *rec
	if stored.ThoughtNumber > stored.TotalThoughts {
		stored.TotalThoughts = stored.ThoughtNumber
	}

	s.mu.Lock()
	s.history = append(s.history, stored)
	if stored.IsBranch() {
		id := *stored.BranchID
		if _, ok := s.branches[id]; !ok {
			s.branchOrder = append(s.branchOrder, id)
		}
		s.branches[id] = append(s.branches[id], stored)
	}
	snap := Snapshot{
		ThoughtNumber:        stored.ThoughtNumber,
		TotalThoughts:        stored.TotalThoughts,
		NextThoughtNeeded:    stored.NextThoughtNeeded,
		Branches:             append([]string{}, s.branchOrder...),
		ThoughtHistoryLength: len(s.history),
	}
	s.mu.Unlock()

	if s.formatter != nil {
		s.formatter.Render(&stored)
	}

	s.logger.Debug("thought recorded",
		"session_id", s.sessionID,
		"thought_number", stored.ThoughtNumber,
		"total_thoughts", stored.TotalThoughts,
		"is_branch", stored.IsBranch(),
		"history_length", snap.ThoughtHistoryLength,
	)
	return snap
}

// History returns a copy of the full thought history in arrival order.
func (s *Store) History() []domain.ThoughtRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ThoughtRecord{}, s.history...)
}

// Branches returns a copy of the branch index. Records within each branch
// are in arrival order.
func (s *Store) Branches() map[string][]domain.ThoughtRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]domain.ThoughtRecord, len(s.branches))
	for id, records := range s.branches {
		out[id] = append([]domain.ThoughtRecord{}, records...)
	}
	return out
}

// HistoryLength returns the current number of recorded thoughts.
func (s *Store) HistoryLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Clear empties the history and all branches. Subsequent reads see an
// empty session; there is no partial clear.
func (s *Store) Clear() {
	s.mu.Lock()
	s.history = nil
	s.branches = make(map[string][]domain.ThoughtRecord)
	s.branchOrder = nil
	s.mu.Unlock()

	s.logger.Info("thought history and branches cleared", "session_id", s.sessionID)
}
