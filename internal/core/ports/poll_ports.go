package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sudheer2004/PollProject/internal/core/domain"
)

// StartPollInput is the presenter's command to open a new question.
type StartPollInput struct {
	Question      string
	Options       []string
	CorrectAnswer string
	TimeLimit     int
}

// JoinResult reports the outcome of a roster join. ReplacedConn is the
// connection evicted by a rejoin with the same name, so the transport can
// terminate it; uuid.Nil when nothing was replaced.
type JoinResult struct {
	Name         string
	ReplacedConn uuid.UUID
}

// SessionState is the catch-up view pushed to a new connection. Remaining
// is the time left now, not the original limit.
type SessionState struct {
	Active    bool
	ID        int64
	Question  string
	Options   []string
	TimeLimit int
	Remaining int
	Results   map[string]int
	Answered  int
}

// PollEngine is the authoritative owner of the single active poll, the
// roster, and the answer ledger. All mutation is serialized internally.
type PollEngine interface {
	Join(name string, conn uuid.UUID) (JoinResult, error)
	Leave(conn uuid.UUID)
	Start(input StartPollInput) (int64, error)
	Submit(conn uuid.UUID, name, option string) error
	End() error
	CurrentState() SessionState
	Students() domain.StudentUpdate
	History(ctx context.Context, limit int) ([]*domain.PollSnapshot, error)
}
