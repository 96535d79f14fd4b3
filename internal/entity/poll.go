package entity

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNoQuestion    = errors.New("poll must have a question")
	ErrInvalidWindow = errors.New("start date must be before end date")
	ErrNoOptions     = errors.New("poll must have at least one option")
	ErrPollNotActive = errors.New("poll is not active")
	ErrInvalidOption = errors.New("invalid option")
)

// Poll is a question with a fixed option set and an inclusive validity
// window. The definition is immutable after creation and tallies move only
// through Vote, so all state is reachable through methods alone.
type Poll struct {
	question  string
	options   []string
	startDate time.Time
	endDate   time.Time
	answers   map[string]int
}

func NewPoll(question string, options []string, start, end time.Time) (*Poll, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrNoQuestion
	}
	if !start.Before(end) {
		return nil, ErrInvalidWindow
	}
	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	answers := make(map[string]int, len(options))
	for _, option := range options {
		answers[option] = 0
	}

	return &Poll{
		question:  question,
		options:   append([]string(nil), options...),
		startDate: start,
		endDate:   end,
		answers:   answers,
	}, nil
}

// RestorePoll rebuilds a poll with existing tallies, typically when loading
// from storage. Options missing from answers start at zero, counts for labels
// outside the option set are dropped. The window is restored as-is: an
// inverted window simply never becomes active.
func RestorePoll(question string, options []string, start, end time.Time, answers map[string]int) (*Poll, error) {
	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	restored := make(map[string]int, len(options))
	for _, option := range options {
		restored[option] = answers[option]
	}

	return &Poll{
		question:  question,
		options:   append([]string(nil), options...),
		startDate: start,
		endDate:   end,
		answers:   restored,
	}, nil
}

func (p *Poll) Question() string { return p.question }

// Options returns a copy of the option labels in their original order.
func (p *Poll) Options() []string {
	return append([]string(nil), p.options...)
}

func (p *Poll) StartDate() time.Time { return p.startDate }

func (p *Poll) EndDate() time.Time { return p.endDate }

// IsActive reports whether now falls inside the window, both ends inclusive.
func (p *Poll) IsActive(now time.Time) bool {
	return !now.Before(p.startDate) && !now.After(p.endDate)
}

// Vote records one vote for option at the given moment. The label is trimmed
// before matching. The activity check runs before the option check.
func (p *Poll) Vote(option string, now time.Time) error {
	option = strings.TrimSpace(option)

	if !p.IsActive(now) {
		return ErrPollNotActive
	}
	if _, ok := p.answers[option]; !ok {
		return ErrInvalidOption
	}

	p.answers[option]++
	return nil
}

// Report returns a copy of the current tallies.
func (p *Poll) Report() map[string]int {
	report := make(map[string]int, len(p.answers))
	for option, votes := range p.answers {
		report[option] = votes
	}
	return report
}
