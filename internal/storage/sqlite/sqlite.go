package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/14kear/poll-manager/internal/entity"
	"github.com/14kear/poll-manager/internal/storage"
)

// Storage persists the poll collection in a sqlite database behind the same
// full-overwrite contract as the JSON file backend.
type Storage struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS polls (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question TEXT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS poll_options (
    poll_id INTEGER NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
    PRIMARY KEY (poll_id, position)
);
`

func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Safe to run on every open, the schema uses IF NOT EXISTS.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// SavePolls replaces the stored collection in a single transaction.
func (s *Storage) SavePolls(ctx context.Context, polls []*entity.Poll) error {
	const op = "storage.sqlite.SavePolls"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM poll_options`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM polls`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, poll := range polls {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO polls (question, start_date, end_date) VALUES (?, ?, ?)`,
			poll.Question(),
			poll.StartDate().Format(time.RFC3339Nano),
			poll.EndDate().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		pollID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		tallies := poll.Report()
		for position, label := range poll.Options() {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO poll_options (poll_id, position, label, votes) VALUES (?, ?, ?, ?)`,
				pollID, position, label, tallies[label],
			)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LoadPolls rebuilds the collection in insertion order. Rows are funneled
// through the shared record codec so both backends validate identically.
func (s *Storage) LoadPolls(ctx context.Context) ([]*entity.Poll, error) {
	const op = "storage.sqlite.LoadPolls"

	rows, err := s.db.QueryContext(ctx, `SELECT id, question, start_date, end_date FROM polls ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	type pollRow struct {
		id     int64
		record storage.PollRecord
	}

	var pollRows []pollRow
	for rows.Next() {
		var row pollRow
		if err := rows.Scan(&row.id, &row.record.Question, &row.record.StartDate, &row.record.EndDate); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		pollRows = append(pollRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	polls := make([]*entity.Poll, 0, len(pollRows))
	for _, row := range pollRows {
		options, answers, err := s.pollOptions(ctx, row.id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		row.record.Options = options
		row.record.Answers = answers

		poll, err := storage.DecodePoll(row.record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		polls = append(polls, poll)
	}

	return polls, nil
}

func (s *Storage) pollOptions(ctx context.Context, pollID int64) ([]string, map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, votes FROM poll_options WHERE poll_id = ? ORDER BY position`, pollID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var options []string
	answers := make(map[string]int)
	for rows.Next() {
		var label string
		var votes int
		if err := rows.Scan(&label, &votes); err != nil {
			return nil, nil, err
		}
		options = append(options, label)
		answers[label] = votes
	}

	return options, answers, rows.Err()
}
