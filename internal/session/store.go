package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sheetmind/sheetmind/internal/common"
	"github.com/sheetmind/sheetmind/internal/dataset"
)

// ErrNotFound is returned for unknown, empty and expired identifiers.
// Expired lookups also evict the entry, so a second lookup returns the
// same error without side effects.
var ErrNotFound = errors.New("session: not found")

const (
	// DefaultTTL bounds a session's life from creation.
	DefaultTTL = 48 * time.Hour
	// DefaultSweepInterval paces the background expiry sweep.
	DefaultSweepInterval = time.Hour
)

// Store is the process-wide session registry. All mutation goes
// through the store lock; the clock is injectable so tests control
// time instead of waiting on it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	seq      uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithTTL replaces the session lifetime.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// NewStore returns an empty registry with the default 2-day TTL.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new session owning the dataset. The identifier is
// a fresh ULID; the freak case of a collision with a live session is
// retried rather than overwritten.
func (st *Store) Create(data dataset.Dataset, columns []string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var id string
	for {
		var err error
		id, err = common.NewULID()
		if err != nil {
			return nil, err
		}
		if _, exists := st.sessions[id]; !exists {
			break
		}
	}

	now := st.now()
	st.seq++
	sess := &Session{
		ID:        id,
		Data:      data,
		Columns:   columns,
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
		seq:       st.seq,
	}
	st.sessions[id] = sess
	return sess, nil
}

// Get returns the live session for id. Expired entries are evicted on
// the spot (lazy expiry) and reported as not found. The returned
// pointer is the live session; callers may append to its log.
func (st *Store) Get(id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if st.expired(sess) {
		delete(st.sessions, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

// MostRecentActive returns the unexpired session with the latest
// CreatedAt; when two share a timestamp the last-inserted one wins.
// Used when a question arrives without a session identifier.
func (st *Store) MostRecentActive() (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var best *Session
	for _, sess := range st.sessions {
		if st.expired(sess) {
			continue
		}
		if best == nil ||
			sess.CreatedAt.After(best.CreatedAt) ||
			(sess.CreatedAt.Equal(best.CreatedAt) && sess.seq > best.seq) {
			best = sess
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

// Sweep removes every expired session and returns how many were
// evicted. It applies the same expiry test as Get, so the two
// mechanisms never disagree.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	evicted := 0
	for id, sess := range st.sessions {
		if st.expired(sess) {
			delete(st.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartSweeper runs Sweep on a fixed interval until ctx is done.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := st.Sweep(); n > 0 {
					log.Info("expired sessions swept", zap.Int("evicted", n))
				}
			}
		}
	}()
}

// Len is the number of registered sessions, expired or not.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(sess *Session) bool {
	return st.now().After(sess.ExpiresAt)
}
