package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/14kear/poll-manager/internal/entity"
	"github.com/14kear/poll-manager/internal/storage"
)

// Storage keeps the whole poll collection in a single JSON array on disk.
// Every save rewrites the file in full.
type Storage struct {
	path string
}

func New(path string) *Storage {
	return &Storage{path: path}
}

// SavePolls writes the collection atomically: encode into a temp file in the
// target directory, fsync, then rename over the destination.
func (s *Storage) SavePolls(ctx context.Context, polls []*entity.Poll) error {
	const op = "storage.jsonfile.SavePolls"

	records := make([]storage.PollRecord, 0, len(polls))
	for _, poll := range polls {
		records = append(records, storage.EncodePoll(poll))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LoadPolls reads the collection back. A missing file or syntactically
// invalid JSON yields an empty collection (start-fresh policy); records that
// decode but fail validation surface storage.ErrMalformedRecord.
func (s *Storage) LoadPolls(ctx context.Context) ([]*entity.Poll, error) {
	const op = "storage.jsonfile.LoadPolls"

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var records []storage.PollRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}

	polls := make([]*entity.Poll, 0, len(records))
	for _, record := range records {
		poll, err := storage.DecodePoll(record)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		polls = append(polls, poll)
	}

	return polls, nil
}
