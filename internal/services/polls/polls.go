package polls

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/poll-manager/internal/entity"
)

// Storage is the durable backend for the poll collection. Implementations
// rewrite the full collection on every save.
type Storage interface {
	SavePolls(ctx context.Context, polls []*entity.Poll) error
	LoadPolls(ctx context.Context) ([]*entity.Poll, error)
}

// PollReport pairs a poll question with its current tallies. Options carries
// the original label order so callers can render deterministically.
type PollReport struct {
	Question string
	Options  []string
	Results  map[string]int
}

// Service owns the poll collection and keeps it consistent with storage
// after every successful mutation.
type Service struct {
	log     *slog.Logger
	storage Storage
	polls   []*entity.Poll
	now     func() time.Time
}

// New loads the persisted collection and returns a service owning it.
func New(ctx context.Context, log *slog.Logger, storage Storage) (*Service, error) {
	const op = "polls.New"

	service := &Service{log: log, storage: storage, now: time.Now}
	if err := service.Reload(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return service, nil
}

// CreatePoll validates, appends and persists a new poll. A failed persist is
// rolled back so memory and durable state stay consistent.
func (s *Service) CreatePoll(ctx context.Context, question string, options []string, start, end time.Time) (*entity.Poll, error) {
	const op = "polls.CreatePoll"

	log := s.log.With(slog.String("op", op), slog.String("question", question))

	poll, err := entity.NewPoll(question, options, start, end)
	if err != nil {
		log.Warn("poll rejected", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.polls = append(s.polls, poll)
	if err := s.storage.SavePolls(ctx, s.polls); err != nil {
		s.polls = s.polls[:len(s.polls)-1]
		log.Error("failed to persist polls", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll created", slog.Int("options", len(options)))
	return poll, nil
}

// ActivePolls returns the polls whose window contains now, in insertion
// order. The returned polls are the service's own instances.
func (s *Service) ActivePolls(now time.Time) []*entity.Poll {
	var active []*entity.Poll
	for _, poll := range s.polls {
		if poll.IsActive(now) {
			active = append(active, poll)
		}
	}
	return active
}

// Vote applies one vote at call time and persists the collection. Rejected
// votes are not persisted and the entity error comes back unchanged.
func (s *Service) Vote(ctx context.Context, poll *entity.Poll, option string) error {
	const op = "polls.Vote"

	log := s.log.With(slog.String("op", op), slog.String("question", poll.Question()))

	if err := poll.Vote(option, s.now()); err != nil {
		log.Warn("vote rejected", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SavePolls(ctx, s.polls); err != nil {
		log.Error("failed to persist polls", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("vote recorded", slog.String("option", strings.TrimSpace(option)))
	return nil
}

// Report returns the tallies of every poll in insertion order, active or not.
func (s *Service) Report() []PollReport {
	reports := make([]PollReport, 0, len(s.polls))
	for _, poll := range s.polls {
		reports = append(reports, PollReport{
			Question: poll.Question(),
			Options:  poll.Options(),
			Results:  poll.Report(),
		})
	}
	return reports
}

// Reload replaces the in-memory collection with the persisted one.
func (s *Service) Reload(ctx context.Context) error {
	const op = "polls.Reload"

	polls, err := s.storage.LoadPolls(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.polls = polls
	s.log.Info("polls loaded", slog.String("op", op), slog.Int("count", len(polls)))
	return nil
}
