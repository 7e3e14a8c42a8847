package domain

import (
	"time"

	"github.com/google/uuid"
)

// PollState is the lifecycle state of a poll session.
type PollState string

const (
	StateActive PollState = "active"
	StateEnded  PollState = "ended"
)

// EndReason records why a poll session ended.
type EndReason string

const (
	ReasonTimeout     EndReason = "timeout"
	ReasonAllAnswered EndReason = "all-answered"
	ReasonManual      EndReason = "manual"
)

// Poll is one live question session. Exactly one poll may be active at a
// time; its ID is a monotonically increasing sequence number.
type Poll struct {
	ID            int64      `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer,omitempty"`
	TimeLimit     int        `json:"time_limit"`
	State         PollState  `json:"state"`
	EndReason     EndReason  `json:"end_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}

// Active reports whether the poll is still open for answers.
func (p *Poll) Active() bool {
	return p != nil && p.State == StateActive
}

// Deadline is the instant the poll times out.
func (p *Poll) Deadline() time.Time {
	return p.CreatedAt.Add(time.Duration(p.TimeLimit) * time.Second)
}

// PollSnapshot is the frozen record of a completed poll handed to the
// archive. Results are zero-filled over the option list.
type PollSnapshot struct {
	ID             uuid.UUID      `json:"-"`
	Sequence       int64          `json:"id"`
	Question       string         `json:"question"`
	Options        []string       `json:"options"`
	CorrectAnswer  string         `json:"correctAnswer,omitempty"`
	Results        map[string]int `json:"results"`
	Responses      []Answer       `json:"responses"`
	TimeLimit      int            `json:"timeLimit"`
	CreatedAt      time.Time      `json:"createdAt"`
	EndedAt        time.Time      `json:"endedAt"`
	AutoEnded      bool           `json:"autoEnded"`
	TotalStudents  int            `json:"totalStudents"`
	TotalResponses int            `json:"totalResponses"`
}
