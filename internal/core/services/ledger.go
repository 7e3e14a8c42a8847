package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sudheer2004/PollProject/internal/core/domain"
)

// ledger records at most one answer per connection for the current poll.
// Entries are scoped to a single session and cleared when a new one starts.
// Not safe for concurrent use; the engine serializes access.
type ledger struct {
	entries []domain.Answer
	byConn  map[uuid.UUID]int
}

func newLedger() *ledger {
	return &ledger{byConn: make(map[uuid.UUID]int)}
}

// record inserts an answer, first writer wins.
func (l *ledger) record(conn uuid.UUID, name, option string) error {
	if _, ok := l.byConn[conn]; ok {
		return domain.ErrDuplicateSubmission
	}
	l.byConn[conn] = len(l.entries)
	l.entries = append(l.entries, domain.Answer{
		Conn:        conn,
		StudentName: name,
		Option:      option,
		SubmittedAt: time.Now(),
	})
	return nil
}

// remove drops the answer tied to conn, if any, and reports whether an
// entry was removed.
func (l *ledger) remove(conn uuid.UUID) bool {
	idx, ok := l.byConn[conn]
	if !ok {
		return false
	}
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	delete(l.byConn, conn)
	for c, i := range l.byConn {
		if i > idx {
			l.byConn[c] = i - 1
		}
	}
	return true
}

func (l *ledger) clear() {
	l.entries = nil
	l.byConn = make(map[uuid.UUID]int)
}

func (l *ledger) total() int {
	return len(l.entries)
}

// counts folds the entries into option→count, zero-filling every option.
func (l *ledger) counts(options []string) map[string]int {
	results := make(map[string]int, len(options))
	for _, opt := range options {
		results[opt] = 0
	}
	for _, e := range l.entries {
		results[e.Option]++
	}
	return results
}

// snapshot returns a copy of the entries in submission order.
func (l *ledger) snapshot() []domain.Answer {
	out := make([]domain.Answer, len(l.entries))
	copy(out, l.entries)
	return out
}
