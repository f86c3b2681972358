package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/archivekit/extractall-go/internal/domain"
	"github.com/archivekit/extractall-go/internal/utils"
)

// Store persists the processing record to a JSON file in the input
// directory. All mutations go through a mutex so marking stays safe if
// the driver is ever parallelized across files.
type Store struct {
	path    string
	mu      sync.Mutex
	state   *State
	logger  *utils.Logger
	retrier *Retrier
}

// StoreOptions contains options for creating a Store
type StoreOptions struct {
	// Dir is the directory holding the state file, normally the input
	// directory being processed
	Dir     string
	Logger  *utils.Logger
	Retrier *Retrier
}

// NewStore creates a Store backed by Dir/extraction_state.json
func NewStore(opts StoreOptions) *Store {
	retrier := opts.Retrier
	if retrier == nil {
		retrier = NewRetrier(DefaultRetrierOptions())
	}

	return &Store{
		path:    filepath.Join(opts.Dir, StateFileName),
		logger:  opts.Logger,
		retrier: retrier,
	}
}

// Path returns the location of the backing file
func (s *Store) Path() string {
	return s.path
}

// Load reads the state file into memory and returns the restored
// statistics. A missing file starts fresh silently; unreadable or
// malformed content also starts fresh but logs the defect, because a
// damaged tracking file must never block a run.
func (s *Store) Load(ctx context.Context) Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.read()
	return s.state.Statistics
}

// read loads and migrates the file, falling back to a fresh state
func (s *Store) read() *State {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewState()
	}
	if err != nil {
		if s.logger != nil {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("State file unreadable, starting fresh")
		}
		return NewState()
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		if s.logger != nil {
			s.logger.Warn().Err(ErrStateCorrupted).Str("path", s.path).Msg("State file corrupted, starting fresh")
		}
		return NewState()
	}

	loaded.migrate()
	loaded.RecomputeStats()
	return &loaded
}

// ensureLocked lazily loads state for callers that skipped Load
func (s *Store) ensureLocked() {
	if s.state == nil {
		s.state = s.read()
	}
}

// Save persists the in-memory state, retrying transient write failures
// with backoff. A save that still fails is surfaced to the caller:
// losing the tracking file breaks idempotence across runs, so it must
// never be dropped silently.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	s.state.Metadata.LastUpdated = time.Now()
	s.state.Metadata.Version = SchemaVersion

	err := s.retrier.Retry(ctx, func() error {
		data, err := json.MarshalIndent(s.state, "", "  ")
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := os.WriteFile(s.path, data, 0644); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStateSaveFailed, err)
	}

	if s.logger != nil {
		s.logger.Debug().
			Str("path", s.path).
			Int("processed", len(s.state.Processed)).
			Msg("State saved")
	}
	return nil
}

// MarkProcessed records the outcome for one identity and persists
// immediately, so a crash mid-batch loses at most the file in flight
func (s *Store) MarkProcessed(ctx context.Context, id string, outcome domain.Outcome) error {
	return s.MarkAllProcessed(ctx, []string{id}, outcome)
}

// MarkAllProcessed records one outcome for several identities with a
// single save. Multipart sets land here: every sibling of a non-failed
// set is marked so no later run re-extracts a continuation volume.
func (s *Store) MarkAllProcessed(ctx context.Context, ids []string, outcome domain.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked()
	for _, id := range ids {
		s.state.Mark(id, outcome)
	}
	return s.saveLocked(ctx)
}

// IsProcessed reports whether the identity was recorded by this or any
// earlier run
func (s *Store) IsProcessed(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked()
	return s.state.IsProcessed(id)
}

// Stats returns a copy of the current statistics block
func (s *Store) Stats() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked()
	return s.state.Statistics
}

// ExportReport assembles the derived end-of-run view: statistics, the
// per-outcome file lists, and metadata
func (s *Store) ExportReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureLocked()
	return s.state.buildReport()
}

// Reset drops the in-memory state and deletes the backing file. A file
// that never existed resets cleanly.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NewState()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Inspect reads and migrates a state file without adopting it into a
// store. Unlike Load, failures surface, so callers can tell a missing
// file from a damaged one.
func Inspect(dir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(dir, StateFileName))
	if os.IsNotExist(err) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, ErrStateCorrupted
	}

	loaded.migrate()
	loaded.RecomputeStats()
	return &loaded, nil
}
