package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	json "github.com/bytedance/sonic"

	"github.com/cohortlabs/worksync/internal/db"
	"github.com/cohortlabs/worksync/internal/localstore"
	"github.com/cohortlabs/worksync/internal/perrors"
)

const storageKey = "progress"

const DefaultLoadTimeout = 6 * time.Second

// Store keeps the weekly progress record consistent between the local store
// and the remote one. Mode is fixed when Load runs: anonymous sessions (or a
// missing backend) read and write locally, signed-in sessions adopt the
// remote record. Updates are optimistic: in-memory state changes first and
// persistence runs fire-and-forget.
type Store struct {
	remote  RemoteStore
	local   *localstore.Store
	timeout time.Duration

	inflight sync.WaitGroup

	mu         sync.Mutex
	weeks      Weeks
	userID     string
	remoteMode bool
	loading    bool
	degraded   bool
	gen        int
}

func NewStore(backend db.Backend, local *localstore.Store, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	s := &Store{
		local:   local,
		timeout: timeout,
		weeks:   DefaultWeeks(),
	}
	if backend.Configured() {
		s.remote = NewProgressRepo(backend.DB())
	}
	return s
}

// Load initializes the record for the given identity. An empty userID means
// anonymous local-only mode. Load never fails: every degraded path lands on
// the local record or the default one.
func (s *Store) Load(ctx context.Context, userID string) Weeks {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.userID = userID
	s.loading = true
	s.degraded = false
	s.remoteMode = userID != "" && s.remote != nil
	remoteMode := s.remoteMode
	s.mu.Unlock()

	if !remoteMode {
		s.commit(gen, s.loadLocal(), false)
		return s.Weeks()
	}

	type result struct {
		weeks Weeks
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		weeks, err := s.remote.Fetch(ctx, userID)
		ch <- result{weeks, err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		s.adoptFetched(ctx, gen, userID, res.weeks, res.err)
	case <-timer.C:
		// The timeout path is terminal: once the fallback is committed the
		// fetch result, if it ever arrives, is discarded.
		slog.Warn("Remote progress fetch timed out, using local record", slog.String("user_id", userID))
		s.commit(gen, s.loadLocal(), true)
		go func() { <-ch }()
	case <-ctx.Done():
		s.commit(gen, s.loadLocal(), true)
		go func() { <-ch }()
	}

	return s.Weeks()
}

func (s *Store) adoptFetched(ctx context.Context, gen int, userID string, fetched Weeks, err error) {
	switch {
	case err == nil && fetched.Valid():
		s.commit(gen, fetched, false)
	case err == nil && len(fetched) == 0:
		// An empty record is as good as a missing one: adopt the local
		// record and migrate it.
		s.migrateLocal(gen, userID)
	case err == nil:
		// A non-empty record that fails the shape invariant: discard it and
		// start over from the default, never merge partially.
		s.commit(gen, DefaultWeeks(), false)
	case perrors.Is(err, perrors.ErrCodeNotFound):
		// First signed-in session for a local user.
		s.migrateLocal(gen, userID)
	default:
		slog.Warn("Remote progress fetch failed, using local record", slog.Any("error", err))
		s.commit(gen, s.loadLocal(), true)
	}
}

// migrateLocal adopts the local record and writes it into the remote store,
// seeding the user's first remote row.
func (s *Store) migrateLocal(gen int, userID string) {
	local := s.loadLocal()
	if s.commit(gen, local, false) {
		s.persistRemote(userID, local.clone())
	}
}

// commit installs weeks as the current record, provided no newer load has
// started since gen was captured. Stale completions are dropped whole.
func (s *Store) commit(gen int, weeks Weeks, degraded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.weeks = weeks
	s.loading = false
	s.degraded = degraded
	return true
}

// Update applies a partial update to the week matching weekID, replacing that
// week immutably and leaving the rest untouched. The in-memory record changes
// before persistence resolves; a failed write is logged and swallowed, the
// in-memory record stays authoritative for the session.
func (s *Store) Update(weekID int, patch WeekPatch) {
	s.mu.Lock()
	next := make(Weeks, len(s.weeks))
	for i, wk := range s.weeks {
		if wk.ID == weekID {
			next[i] = wk.applied(patch)
		} else {
			next[i] = wk
		}
	}
	s.weeks = next
	remoteMode := s.remoteMode
	userID := s.userID
	snapshot := next.clone()
	s.mu.Unlock()

	if remoteMode {
		s.persistRemote(userID, snapshot)
		return
	}
	s.saveLocal(snapshot)
}

// Weeks returns a copy of the current record.
func (s *Store) Weeks() Weeks {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weeks.clone()
}

// Loading reports whether a Load is still in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Degraded reports whether the session fell back after a remote failure.
// Writes in a degraded session may fail silently.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Store) loadLocal() Weeks {
	raw, ok := s.local.Get(storageKey)
	if !ok {
		return DefaultWeeks()
	}
	var weeks Weeks
	if err := json.Unmarshal(raw, &weeks); err != nil || !weeks.Valid() {
		return DefaultWeeks()
	}
	return weeks
}

func (s *Store) saveLocal(weeks Weeks) {
	raw, err := json.Marshal(weeks)
	if err != nil {
		slog.Warn("Unable to encode progress record", slog.Any("error", err))
		return
	}
	if err := s.local.Set(storageKey, raw); err != nil {
		slog.Warn("Unable to persist progress record locally", slog.Any("error", err))
	}
}

func (s *Store) persistRemote(userID string, weeks Weeks) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		err := s.remote.Upsert(context.Background(), userID, weeks, time.Now())
		if err != nil {
			slog.Warn("Remote progress upsert failed, keeping optimistic state",
				slog.String("user_id", userID), slog.Any("error", err))
		}
	}()
}

// Flush waits for fire-and-forget writes still in flight. Callers that are
// about to exit use it to drain; it never reports whether the writes stuck.
func (s *Store) Flush() {
	s.inflight.Wait()
}
