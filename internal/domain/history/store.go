package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/browsim/internal/providers/storage"
	"github.com/GriffinCanCode/browsim/internal/shared/id"
)

// DefaultKey is the storage key holding the serialized history
const DefaultKey = "browser-history"

// Store owns the history log. It is not safe for concurrent use;
// the navigation coordinator serializes access.
type Store struct {
	kv      storage.Store
	key     string
	logger  *zap.Logger
	ids     *id.Generator
	now     func() time.Time
	entries []Entry // newest first
}

// Option customises a Store
type Option func(*Store)

// WithKey sets the storage key. Default: DefaultKey.
func WithKey(key string) Option { return func(s *Store) { s.key = key } }

// WithLogger sets the logger. Default: no-op.
func WithLogger(logger *zap.Logger) Option { return func(s *Store) { s.logger = logger } }

// WithClock overrides time.Now for visit timestamps
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator overrides the entry ID generator
func WithIDGenerator(gen *id.Generator) Option { return func(s *Store) { s.ids = gen } }

// NewStore creates an empty store writing through to kv. Call Load to hydrate it.
func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: zap.NewNop(),
		ids:    id.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Load replaces the in-memory log with the persisted one. Missing or corrupt
// data yields an empty history; only a backend read failure is returned,
// and the history is empty in that case too.
func (s *Store) Load(ctx context.Context) error {
	s.entries = nil

	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	entries, dropped, err := decode(data)
	if err != nil {
		s.logger.Warn("Discarding corrupt history",
			zap.String("key", s.key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return nil
	}
	if dropped > 0 {
		s.logger.Warn("Dropped invalid history records",
			zap.String("key", s.key),
			zap.Int("dropped", dropped),
		)
	}

	s.entries = entries
	s.logger.Debug("History loaded", zap.Int("entries", len(entries)))
	return nil
}

// Append records a visit at the head of the log and persists the log.
// The entry is kept in memory even if persisting fails; the error is returned.
func (s *Store) Append(ctx context.Context, url, title string) (Entry, error) {
	entry := Entry{
		ID:        s.ids.NewEntryID(),
		URL:       url,
		Title:     title,
		VisitedAt: s.now(),
	}

	entries := make([]Entry, 0, len(s.entries)+1)
	entries = append(entries, entry)
	s.entries = append(entries, s.entries...)

	if err := s.persist(ctx); err != nil {
		return entry, err
	}
	return entry, nil
}

// Clear empties the log and erases the persisted value. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	s.entries = nil

	if err := s.kv.Delete(ctx, s.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// LoadAll returns a copy of the log, newest first
func (s *Store) LoadAll() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get finds an entry by ID
func (s *Store) Get(entryID id.EntryID) (Entry, error) {
	for _, e := range s.entries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, entryID)
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

func (s *Store) persist(ctx context.Context) error {
	data, err := encode(s.entries)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}
