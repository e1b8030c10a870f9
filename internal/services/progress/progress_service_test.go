package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlabs/worksync/internal/localstore"
	"github.com/cohortlabs/worksync/internal/perrors"
)

// fakeRemote lets tests script the remote side: canned records, errors, and
// fetches that hang until released.
type fakeRemote struct {
	mu        sync.Mutex
	record    Weeks
	fetchErr  error
	upsertErr error
	block     chan struct{}

	upserts []Weeks
}

func (f *fakeRemote) Fetch(ctx context.Context, userID string) (Weeks, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.record, nil
}

func (f *fakeRemote) Upsert(ctx context.Context, userID string, weeks Weeks, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, weeks)
	return nil
}

func (f *fakeRemote) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func newLocalOnlyStore(t *testing.T) *Store {
	t.Helper()
	return &Store{
		local:   localstore.New(t.TempDir()),
		timeout: DefaultLoadTimeout,
		weeks:   DefaultWeeks(),
	}
}

func newRemoteStore(t *testing.T, remote RemoteStore, timeout time.Duration) *Store {
	t.Helper()
	return &Store{
		remote:  remote,
		local:   localstore.New(t.TempDir()),
		timeout: timeout,
		weeks:   DefaultWeeks(),
	}
}

func TestLoad_Anonymous(t *testing.T) {
	t.Run("returns the default record on first use", func(t *testing.T) {
		store := newLocalOnlyStore(t)

		weeks := store.Load(context.Background(), "")

		require.Len(t, weeks, TotalWeeks)
		for i, wk := range weeks {
			assert.Equal(t, i+1, wk.ID)
			assert.False(t, wk.Completed)
			assert.Empty(t, wk.Notes)
			assert.Len(t, wk.Materials, 3)
		}
		assert.False(t, store.Loading())
		assert.False(t, store.Degraded())
	})

	t.Run("replaces a malformed local record with the default", func(t *testing.T) {
		local := localstore.New(t.TempDir())
		require.NoError(t, local.Set(storageKey, []byte(`{"not":"a list"}`)))

		store := &Store{local: local, timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}
		weeks := store.Load(context.Background(), "")

		require.Len(t, weeks, TotalWeeks)
	})

	t.Run("replaces a short local record with the default, never merges", func(t *testing.T) {
		local := localstore.New(t.TempDir())
		require.NoError(t, local.Set(storageKey, []byte(`[{"id":1,"completed":true}]`)))

		store := &Store{local: local, timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}
		weeks := store.Load(context.Background(), "")

		require.Len(t, weeks, TotalWeeks)
		assert.False(t, weeks[0].Completed)
	})
}

func TestUpdate_LocalPersistence(t *testing.T) {
	t.Run("survives a simulated restart", func(t *testing.T) {
		dir := t.TempDir()
		store := &Store{local: localstore.New(dir), timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}
		store.Load(context.Background(), "")

		done := true
		store.Update(3, WeekPatch{Completed: &done})

		reopened := &Store{local: localstore.New(dir), timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}
		weeks := reopened.Load(context.Background(), "")

		require.Len(t, weeks, TotalWeeks)
		for _, wk := range weeks {
			assert.Equal(t, wk.ID == 3, wk.Completed, "week %d", wk.ID)
		}
	})

	t.Run("touches only the matching week", func(t *testing.T) {
		store := newLocalOnlyStore(t)
		before := store.Load(context.Background(), "")

		done := true
		store.Update(5, WeekPatch{Completed: &done})
		after := store.Weeks()

		for i := range before {
			if after[i].ID == 5 {
				assert.True(t, after[i].Completed)
				assert.Equal(t, before[i].Notes, after[i].Notes)
				assert.Equal(t, before[i].Materials, after[i].Materials)
				continue
			}
			assert.Equal(t, before[i], after[i])
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		store := newLocalOnlyStore(t)
		store.Load(context.Background(), "")

		done := true
		store.Update(3, WeekPatch{Completed: &done})
		once := store.Weeks()
		store.Update(3, WeekPatch{Completed: &done})
		twice := store.Weeks()

		assert.Equal(t, once, twice)
	})

	t.Run("replaces materials whole when patched", func(t *testing.T) {
		store := newLocalOnlyStore(t)
		store.Load(context.Background(), "")

		store.Update(1, WeekPatch{Materials: []Material{{Label: "Project link", URL: "https://example.com"}}})
		weeks := store.Weeks()

		require.Len(t, weeks[0].Materials, 1)
		assert.Equal(t, "https://example.com", weeks[0].Materials[0].URL)
	})
}

func TestLoad_Remote(t *testing.T) {
	t.Run("adopts a valid remote record", func(t *testing.T) {
		record := DefaultWeeks()
		record[1].Completed = true
		record[1].Notes = "built a scraper"
		remote := &fakeRemote{record: record}

		store := newRemoteStore(t, remote, DefaultLoadTimeout)
		weeks := store.Load(context.Background(), "user-a")

		assert.True(t, weeks[1].Completed)
		assert.Equal(t, "built a scraper", weeks[1].Notes)
		assert.False(t, store.Degraded())
	})

	t.Run("discards a remote record with the wrong week count", func(t *testing.T) {
		remote := &fakeRemote{record: DefaultWeeks()[:4]}

		store := newRemoteStore(t, remote, DefaultLoadTimeout)
		weeks := store.Load(context.Background(), "user-a")

		require.Len(t, weeks, TotalWeeks)
		assert.False(t, store.Degraded())
		assert.Zero(t, remote.upsertCount(), "a malformed record must not trigger migration")
	})

	t.Run("treats an empty remote record like a missing one", func(t *testing.T) {
		local := localstore.New(t.TempDir())
		seedStore := &Store{local: local, timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}
		seedStore.Load(context.Background(), "")
		done := true
		seedStore.Update(4, WeekPatch{Completed: &done})

		remote := &fakeRemote{record: Weeks{}}
		store := &Store{remote: remote, local: local, timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}

		weeks := store.Load(context.Background(), "user-a")
		store.Flush()

		require.Len(t, weeks, TotalWeeks)
		assert.True(t, weeks[3].Completed, "local record expected, not the default")
		require.Equal(t, 1, remote.upsertCount())
		assert.True(t, remote.upserts[0][3].Completed)
		assert.False(t, store.Degraded())
	})

	t.Run("migrates a first-time local record into the remote store", func(t *testing.T) {
		local := localstore.New(t.TempDir())
		seedStore := &Store{local: local, timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}
		seedStore.Load(context.Background(), "")
		done := true
		seedStore.Update(1, WeekPatch{Completed: &done})

		remote := &fakeRemote{fetchErr: perrors.NewErrNotFound("no progress record for user", nil)}
		store := &Store{remote: remote, local: local, timeout: DefaultLoadTimeout, weeks: DefaultWeeks()}

		weeks := store.Load(context.Background(), "user-a")
		store.Flush()

		assert.True(t, weeks[0].Completed)
		require.Equal(t, 1, remote.upsertCount())
		assert.True(t, remote.upserts[0][0].Completed)
		assert.False(t, store.Degraded())
	})

	t.Run("falls back to the local record when the fetch fails", func(t *testing.T) {
		remote := &fakeRemote{fetchErr: perrors.NewErrPersistenceFailure("boom", nil)}

		store := newRemoteStore(t, remote, DefaultLoadTimeout)
		weeks := store.Load(context.Background(), "user-a")

		require.Len(t, weeks, TotalWeeks)
		assert.True(t, store.Degraded())
		assert.Zero(t, remote.upsertCount(), "a failed fetch must not trigger migration")
	})
}

func TestLoad_Timeout(t *testing.T) {
	t.Run("completes with the local fallback at the budget boundary", func(t *testing.T) {
		record := DefaultWeeks()
		record[9].Completed = true
		remote := &fakeRemote{record: record, block: make(chan struct{})}

		store := newRemoteStore(t, remote, 30*time.Millisecond)

		start := time.Now()
		weeks := store.Load(context.Background(), "user-a")

		assert.Less(t, time.Since(start), 5*time.Second)
		assert.False(t, weeks[9].Completed, "fallback record expected")
		assert.False(t, store.Loading())
		assert.True(t, store.Degraded())

		// The late fetch result must be discarded: the timeout path is
		// terminal once taken.
		close(remote.block)
		time.Sleep(50 * time.Millisecond)
		assert.False(t, store.Weeks()[9].Completed)
	})
}

func TestLoad_StaleCompletion(t *testing.T) {
	t.Run("a newer load supersedes an in-flight one", func(t *testing.T) {
		record := DefaultWeeks()
		record[0].Notes = "from user-a"
		remote := &fakeRemote{record: record, block: make(chan struct{})}

		store := newRemoteStore(t, remote, 30*time.Millisecond)
		store.Load(context.Background(), "user-a") // times out, result pending

		store.Load(context.Background(), "") // identity changed to anonymous

		close(remote.block)
		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, store.Weeks()[0].Notes, "stale fetch result must not clobber the new identity")
	})
}

func TestUpdate_RemoteFireAndForget(t *testing.T) {
	t.Run("upserts the whole record keyed by user", func(t *testing.T) {
		remote := &fakeRemote{record: DefaultWeeks()}
		store := newRemoteStore(t, remote, DefaultLoadTimeout)
		store.Load(context.Background(), "user-a")

		done := true
		store.Update(2, WeekPatch{Completed: &done})
		store.Flush()

		require.Equal(t, 1, remote.upsertCount())
		assert.True(t, remote.upserts[0][1].Completed)
	})

	t.Run("keeps the optimistic state when the write fails", func(t *testing.T) {
		remote := &fakeRemote{record: DefaultWeeks(), upsertErr: perrors.NewErrPersistenceFailure("rejected", nil)}
		store := newRemoteStore(t, remote, DefaultLoadTimeout)
		store.Load(context.Background(), "user-a")

		done := true
		store.Update(2, WeekPatch{Completed: &done})
		store.Flush()

		assert.True(t, store.Weeks()[1].Completed, "in-memory state stays authoritative")
	})
}
