package storage

import (
	"fmt"
	"time"

	"github.com/14kear/poll-manager/internal/entity"
)

// PollRecord is the persisted shape of a single poll. The durable form is a
// bare array of these records: no envelope, no version field, no checksum.
type PollRecord struct {
	Question  string         `json:"question"`
	Options   []string       `json:"options"`
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Answers   map[string]int `json:"answers,omitempty"`
}

// Older files written by the previous implementation carry zone-less
// timestamps, so the decoder accepts both forms.
const dateLayoutNoZone = "2006-01-02T15:04:05"

func EncodePoll(poll *entity.Poll) PollRecord {
	return PollRecord{
		Question:  poll.Question(),
		Options:   poll.Options(),
		StartDate: poll.StartDate().Format(time.RFC3339Nano),
		EndDate:   poll.EndDate().Format(time.RFC3339Nano),
		Answers:   poll.Report(),
	}
}

// DecodePoll is the strict inverse of EncodePoll. Missing required fields,
// unparseable dates or negative counts yield ErrMalformedRecord; an absent
// answers map reconstructs zero tallies from the option set.
func DecodePoll(record PollRecord) (*entity.Poll, error) {
	const op = "storage.DecodePoll"

	if record.Question == "" {
		return nil, fmt.Errorf("%s: missing question: %w", op, ErrMalformedRecord)
	}
	if len(record.Options) == 0 {
		return nil, fmt.Errorf("%s: missing options: %w", op, ErrMalformedRecord)
	}

	start, err := parseDate(record.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%s: start_date %q: %w", op, record.StartDate, ErrMalformedRecord)
	}
	end, err := parseDate(record.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%s: end_date %q: %w", op, record.EndDate, ErrMalformedRecord)
	}

	for option, votes := range record.Answers {
		if votes < 0 {
			return nil, fmt.Errorf("%s: negative count for option %q: %w", op, option, ErrMalformedRecord)
		}
	}

	poll, err := entity.RestorePoll(record.Question, record.Options, start, end, record.Answers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedRecord)
	}

	return poll, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayoutNoZone, value)
}
