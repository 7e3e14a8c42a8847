package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sudheer2004/PollProject/internal/core/domain"
	"github.com/sudheer2004/PollProject/internal/core/ports"
)

const (
	minTimeLimit     = 10
	maxTimeLimit     = 300
	defaultTimeLimit = 60

	// Delay between the last answer arriving and the all-answered end, so
	// the final results broadcast and the submitter's ack land first.
	allAnsweredGrace = 500 * time.Millisecond

	archiveTimeout = 5 * time.Second
)

// pollEngine owns all mutable session state: the roster, the answer
// ledger, and the single current poll. One mutex serializes every
// mutation, including countdown callbacks; fired callbacks verify the
// poll they were armed for is still the active one.
type pollEngine struct {
	mu     sync.Mutex
	roster *roster
	ledger *ledger

	current *domain.Poll
	seq     int64
	timer   *countdown

	broadcaster ports.Broadcaster
	archive     ports.ArchiveRepository
	grace       time.Duration
}

func NewPollEngine(broadcaster ports.Broadcaster, archive ports.ArchiveRepository) ports.PollEngine {
	return &pollEngine{
		roster:      newRoster(),
		ledger:      newLedger(),
		broadcaster: broadcaster,
		archive:     archive,
		grace:       allAnsweredGrace,
	}
}

// Join adds a student to the roster. Joining again with the same name
// evicts the previous connection, which is returned for the transport to
// terminate.
func (e *pollEngine) Join(name string, conn uuid.UUID) (ports.JoinResult, error) {
	name = strings.TrimSpace(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	replaced, err := e.roster.join(name, conn)
	if err != nil {
		return ports.JoinResult{}, err
	}

	e.broadcastStudentsLocked()
	return ports.JoinResult{Name: name, ReplacedConn: replaced}, nil
}

// Leave removes the student bound to conn. If a poll is active, the
// departed connection's answer is dropped from the live count and results
// are rebroadcast.
func (e *pollEngine) Leave(conn uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, left := e.roster.leave(conn)
	removed := e.ledger.remove(conn)

	if e.current.Active() && removed {
		e.broadcaster.BroadcastAll(domain.EventPollResults, e.ledger.counts(e.current.Options))
	}
	if left {
		e.broadcastStudentsLocked()
	}
}

// Start opens a new poll. Any active poll is ended first with reason
// manual, producing exactly one pollEnded before the new questionStarted.
func (e *pollEngine) Start(input ports.StartPollInput) (int64, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return 0, domain.ErrInvalidQuestion
	}
	options := normalizeOptions(input.Options)
	if len(options) < 2 {
		return 0, domain.ErrInsufficientOptions
	}
	limit := clampTimeLimit(input.TimeLimit)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current.Active() {
		e.endLocked(domain.ReasonManual)
	}

	e.seq++
	e.current = &domain.Poll{
		ID:            e.seq,
		Question:      question,
		Options:       options,
		CorrectAnswer: strings.TrimSpace(input.CorrectAnswer),
		TimeLimit:     limit,
		State:         domain.StateActive,
		CreatedAt:     time.Now(),
	}
	e.ledger.clear()

	id := e.seq
	e.timer = startCountdown(limit,
		func(remaining int) { e.onTick(id, remaining) },
		func() { e.onExpire(id) },
	)

	e.broadcaster.BroadcastAll(domain.EventQuestionStarted, domain.QuestionStarted{
		ID:        id,
		Question:  question,
		Options:   options,
		TimeLimit: limit,
	})
	return id, nil
}

// Submit records one answer for conn. On success the updated results are
// broadcast and the submitter gets an individual ack. When every
// connected student has answered, the poll is scheduled to end after a
// short grace delay.
func (e *pollEngine) Submit(conn uuid.UUID, name, option string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.current.Active() {
		return domain.ErrNoActiveSession
	}
	valid := false
	for _, opt := range e.current.Options {
		if opt == option {
			valid = true
			break
		}
	}
	if !valid {
		return domain.ErrInvalidOption
	}
	if err := e.ledger.record(conn, name, option); err != nil {
		return err
	}

	e.broadcaster.BroadcastAll(domain.EventPollResults, e.ledger.counts(e.current.Options))
	e.broadcaster.SendTo(conn, domain.EventAnswerSubmitted, domain.AnswerSubmitted{
		Answer:    option,
		Timestamp: time.Now(),
	})

	if e.roster.size() > 0 && e.ledger.total() >= e.roster.size() {
		id := e.current.ID
		time.AfterFunc(e.grace, func() { e.endIfAllAnswered(id) })
	}
	return nil
}

// End is the presenter's manual end.
func (e *pollEngine) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.current.Active() {
		return domain.ErrNoActivePoll
	}
	e.endLocked(domain.ReasonManual)
	return nil
}

// CurrentState is the catch-up view for a new connection. Remaining time
// reflects the countdown, not the original limit.
func (e *pollEngine) CurrentState() ports.SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.current.Active() {
		return ports.SessionState{}
	}
	remaining := int(time.Until(e.current.Deadline()).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return ports.SessionState{
		Active:    true,
		ID:        e.current.ID,
		Question:  e.current.Question,
		Options:   append([]string(nil), e.current.Options...),
		TimeLimit: e.current.TimeLimit,
		Remaining: remaining,
		Results:   e.ledger.counts(e.current.Options),
		Answered:  e.ledger.total(),
	}
}

func (e *pollEngine) Students() domain.StudentUpdate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.StudentUpdate{
		TotalStudents: e.roster.size(),
		Students:      e.roster.names(),
	}
}

func (e *pollEngine) History(ctx context.Context, limit int) ([]*domain.PollSnapshot, error) {
	return e.archive.GetRecent(ctx, limit)
}

func (e *pollEngine) onTick(pollID int64, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current.Active() || e.current.ID != pollID {
		return
	}
	e.broadcaster.BroadcastAll(domain.EventTimeUpdate, domain.TimeUpdate{TimeLeft: remaining})
}

func (e *pollEngine) onExpire(pollID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current.Active() || e.current.ID != pollID {
		return
	}
	e.endLocked(domain.ReasonTimeout)
}

func (e *pollEngine) endIfAllAnswered(pollID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current.Active() || e.current.ID != pollID {
		return
	}
	// A student may have joined during the grace delay.
	if e.roster.size() == 0 || e.ledger.total() < e.roster.size() {
		return
	}
	e.endLocked(domain.ReasonAllAnswered)
}

// endLocked freezes the current poll, hands the snapshot to the archive,
// and broadcasts pollEnded with the correct answer revealed. Callers hold
// the mutex and have verified the poll is active.
func (e *pollEngine) endLocked(reason domain.EndReason) {
	poll := e.current
	if e.timer != nil {
		e.timer.cancel()
		e.timer = nil
	}

	now := time.Now()
	poll.State = domain.StateEnded
	poll.EndReason = reason
	poll.EndedAt = &now

	snap := &domain.PollSnapshot{
		ID:             uuid.New(),
		Sequence:       poll.ID,
		Question:       poll.Question,
		Options:        append([]string(nil), poll.Options...),
		CorrectAnswer:  poll.CorrectAnswer,
		Results:        e.ledger.counts(poll.Options),
		Responses:      e.ledger.snapshot(),
		TimeLimit:      poll.TimeLimit,
		CreatedAt:      poll.CreatedAt,
		EndedAt:        now,
		AutoEnded:      reason == domain.ReasonTimeout,
		TotalStudents:  e.roster.size(),
		TotalResponses: e.ledger.total(),
	}
	e.ledger.clear()

	go e.archiveSnapshot(snap)

	e.broadcaster.BroadcastAll(domain.EventPollEnded, domain.PollEnded{
		PollID:         snap.Sequence,
		Question:       snap.Question,
		Results:        snap.Results,
		CorrectAnswer:  snap.CorrectAnswer,
		TotalResponses: snap.TotalResponses,
		TotalStudents:  snap.TotalStudents,
		AutoEnded:      snap.AutoEnded,
	})
}

// archiveSnapshot persists best-effort: failures are logged and never
// block the end-of-poll broadcast.
func (e *pollEngine) archiveSnapshot(snap *domain.PollSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := e.archive.Save(ctx, snap); err != nil {
		log.Printf("failed to archive poll %d: %v", snap.Sequence, err)
	}
}

// normalizeOptions trims, drops blanks, and deduplicates while preserving
// order. Options differing only in surrounding whitespace collapse; no
// further normalization is applied.
func normalizeOptions(options []string) []string {
	seen := make(map[string]bool, len(options))
	var out []string
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" || seen[opt] {
			continue
		}
		seen[opt] = true
		out = append(out, opt)
	}
	return out
}

func clampTimeLimit(seconds int) int {
	if seconds == 0 {
		return defaultTimeLimit
	}
	if seconds < minTimeLimit {
		return minTimeLimit
	}
	if seconds > maxTimeLimit {
		return maxTimeLimit
	}
	return seconds
}

// broadcastStudentsLocked pushes the roster to everyone. Callers hold the
// mutex.
func (e *pollEngine) broadcastStudentsLocked() {
	e.broadcaster.BroadcastAll(domain.EventStudentUpdate, domain.StudentUpdate{
		TotalStudents: e.roster.size(),
		Students:      e.roster.names(),
	})
}
