package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sudheer2004/PollProject/internal/core/domain"
)

func TestLedgerRecord(t *testing.T) {
	l := newLedger()
	conn := uuid.New()

	require.NoError(t, l.record(conn, "Alice", "Mars"))
	assert.Equal(t, 1, l.total())

	counts := l.counts([]string{"Mars", "Venus"})
	assert.Equal(t, map[string]int{"Mars": 1, "Venus": 0}, counts)
}

func TestLedgerDuplicateSubmission(t *testing.T) {
	l := newLedger()
	conn := uuid.New()

	require.NoError(t, l.record(conn, "Alice", "Mars"))
	err := l.record(conn, "Alice", "Venus")
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	// First writer wins, state unchanged.
	assert.Equal(t, 1, l.total())
	assert.Equal(t, map[string]int{"Mars": 1, "Venus": 0}, l.counts([]string{"Mars", "Venus"}))
}

func TestLedgerCountsZeroFilled(t *testing.T) {
	l := newLedger()

	counts := l.counts([]string{"A", "B", "C"})
	assert.Equal(t, map[string]int{"A": 0, "B": 0, "C": 0}, counts)
}

func TestLedgerCountsSumEqualsTotal(t *testing.T) {
	l := newLedger()
	options := []string{"A", "B"}
	for i := 0; i < 5; i++ {
		opt := options[i%2]
		require.NoError(t, l.record(uuid.New(), "student", opt))
	}

	sum := 0
	for _, n := range l.counts(options) {
		sum += n
	}
	assert.Equal(t, l.total(), sum)
}

func TestLedgerRemove(t *testing.T) {
	l := newLedger()
	connA := uuid.New()
	connB := uuid.New()
	connC := uuid.New()
	require.NoError(t, l.record(connA, "Alice", "A"))
	require.NoError(t, l.record(connB, "Bob", "B"))
	require.NoError(t, l.record(connC, "Carol", "A"))

	assert.True(t, l.remove(connA))
	assert.False(t, l.remove(connA))
	assert.Equal(t, 2, l.total())
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, l.counts([]string{"A", "B"}))

	// Remaining connections can still be removed after reindexing.
	assert.True(t, l.remove(connC))
	assert.Equal(t, map[string]int{"A": 0, "B": 1}, l.counts([]string{"A", "B"}))
}

func TestLedgerClear(t *testing.T) {
	l := newLedger()
	conn := uuid.New()
	require.NoError(t, l.record(conn, "Alice", "A"))

	l.clear()
	assert.Equal(t, 0, l.total())

	// The same connection may answer again in a new session.
	require.NoError(t, l.record(conn, "Alice", "B"))
}

func TestLedgerSnapshotOrder(t *testing.T) {
	l := newLedger()
	require.NoError(t, l.record(uuid.New(), "Alice", "A"))
	require.NoError(t, l.record(uuid.New(), "Bob", "B"))

	snap := l.snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Alice", snap[0].StudentName)
	assert.Equal(t, "Bob", snap[1].StudentName)

	// Snapshot is a copy, detached from later mutation.
	l.clear()
	assert.Len(t, snap, 2)
}
