package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14kear/poll-manager/internal/entity"
)

var (
	testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "polls.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func mustPoll(t *testing.T, question string) *entity.Poll {
	t.Helper()

	poll, err := entity.NewPoll(question, []string{"Red", "Blue"}, testStart, testEnd)
	require.NoError(t, err)
	return poll
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := mustPoll(t, "Color?")
	second := mustPoll(t, "Best season?")
	require.NoError(t, first.Vote("Red", testStart))
	require.NoError(t, first.Vote("Red", testStart))
	require.NoError(t, second.Vote("Blue", testStart))

	require.NoError(t, store.SavePolls(ctx, []*entity.Poll{first, second}))

	loaded, err := store.LoadPolls(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "Color?", loaded[0].Question())
	assert.Equal(t, []string{"Red", "Blue"}, loaded[0].Options())
	assert.Equal(t, map[string]int{"Red": 2, "Blue": 0}, loaded[0].Report())
	assert.Equal(t, map[string]int{"Red": 0, "Blue": 1}, loaded[1].Report())
	assert.True(t, loaded[0].StartDate().Equal(testStart))
	assert.True(t, loaded[0].EndDate().Equal(testEnd))
}

func TestLoadPolls_EmptyDatabase(t *testing.T) {
	store := newTestStorage(t)

	polls, err := store.LoadPolls(context.Background())
	require.NoError(t, err)
	assert.Empty(t, polls)
}

func TestSavePolls_OverwritesPrevious(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SavePolls(ctx, []*entity.Poll{mustPoll(t, "Color?"), mustPoll(t, "Season?")}))
	require.NoError(t, store.SavePolls(ctx, []*entity.Poll{mustPoll(t, "Only one?")}))

	loaded, err := store.LoadPolls(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Only one?", loaded[0].Question())
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "polls.db")
	ctx := context.Background()

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.SavePolls(ctx, []*entity.Poll{mustPoll(t, "Color?")}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.LoadPolls(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Color?", loaded[0].Question())
}
