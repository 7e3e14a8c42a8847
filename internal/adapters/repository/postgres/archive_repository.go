package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sudheer2004/PollProject/internal/core/domain"
	"github.com/sudheer2004/PollProject/internal/core/ports"
)

type archiveRepository struct {
	db *sql.DB
}

func NewArchiveRepository(db *sql.DB) ports.ArchiveRepository {
	return &archiveRepository{
		db: db,
	}
}

func (r *archiveRepository) Save(ctx context.Context, snap *domain.PollSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO archived_polls (id, sequence, question, correct_answer, time_limit, created_at, ended_at, auto_ended, total_students, total_responses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		snap.ID, snap.Sequence, snap.Question, snap.CorrectAnswer, snap.TimeLimit,
		snap.CreatedAt, snap.EndedAt, snap.AutoEnded, snap.TotalStudents, snap.TotalResponses,
	)
	if err != nil {
		return fmt.Errorf("failed to insert archived poll: %w", err)
	}

	queryOption := `
		INSERT INTO archived_options (poll_id, position, text, votes)
		VALUES ($1, $2, $3, $4)
	`
	optStmt, err := tx.PrepareContext(ctx, queryOption)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer optStmt.Close()

	for i, opt := range snap.Options {
		_, err = optStmt.ExecContext(ctx, snap.ID, i, opt, snap.Results[opt])
		if err != nil {
			return fmt.Errorf("failed to insert archived option: %w", err)
		}
	}

	queryAnswer := `
		INSERT INTO archived_answers (id, poll_id, student_name, answer, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	ansStmt, err := tx.PrepareContext(ctx, queryAnswer)
	if err != nil {
		return fmt.Errorf("failed to prepare answer statement: %w", err)
	}
	defer ansStmt.Close()

	for _, a := range snap.Responses {
		_, err = ansStmt.ExecContext(ctx, uuid.New(), snap.ID, a.StudentName, a.Option, a.SubmittedAt)
		if err != nil {
			return fmt.Errorf("failed to insert archived answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *archiveRepository) GetRecent(ctx context.Context, limit int) ([]*domain.PollSnapshot, error) {
	query := `
		SELECT id, sequence, question, correct_answer, time_limit, created_at, ended_at, auto_ended, total_students, total_responses
		FROM archived_polls
		ORDER BY ended_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived polls: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.PollSnapshot
	for rows.Next() {
		var snap domain.PollSnapshot
		if err := rows.Scan(
			&snap.ID, &snap.Sequence, &snap.Question, &snap.CorrectAnswer, &snap.TimeLimit,
			&snap.CreatedAt, &snap.EndedAt, &snap.AutoEnded, &snap.TotalStudents, &snap.TotalResponses,
		); err != nil {
			return nil, fmt.Errorf("failed to scan archived poll: %w", err)
		}

		if err := r.fetchOptions(ctx, &snap); err != nil {
			return nil, err
		}
		if err := r.fetchAnswers(ctx, &snap); err != nil {
			return nil, err
		}

		snaps = append(snaps, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating archived polls: %w", err)
	}
	return snaps, nil
}

func (r *archiveRepository) fetchOptions(ctx context.Context, snap *domain.PollSnapshot) error {
	query := `
		SELECT text, votes
		FROM archived_options
		WHERE poll_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, snap.ID)
	if err != nil {
		return fmt.Errorf("failed to get archived options: %w", err)
	}
	defer rows.Close()

	snap.Results = make(map[string]int)
	for rows.Next() {
		var text string
		var votes int
		if err := rows.Scan(&text, &votes); err != nil {
			return fmt.Errorf("failed to scan archived option: %w", err)
		}
		snap.Options = append(snap.Options, text)
		snap.Results[text] = votes
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating archived options: %w", err)
	}
	return nil
}

func (r *archiveRepository) fetchAnswers(ctx context.Context, snap *domain.PollSnapshot) error {
	query := `
		SELECT student_name, answer, submitted_at
		FROM archived_answers
		WHERE poll_id = $1
		ORDER BY submitted_at
	`
	rows, err := r.db.QueryContext(ctx, query, snap.ID)
	if err != nil {
		return fmt.Errorf("failed to get archived answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.StudentName, &a.Option, &a.SubmittedAt); err != nil {
			return fmt.Errorf("failed to scan archived answer: %w", err)
		}
		snap.Responses = append(snap.Responses, a)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating archived answers: %w", err)
	}
	return nil
}
