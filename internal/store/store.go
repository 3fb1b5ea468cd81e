package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/logging"
)

// Store owns the application state and persists it as a single
// versioned snapshot on every successful mutation. All writes funnel
// through Apply so a multi-collection change is one transaction from
// the caller's point of view.
type Store struct {
	mu     sync.RWMutex
	path   string
	logger zerolog.Logger
	state  *State
}

// Open loads the store from the given data directory. A missing
// snapshot triggers a one-time migration of legacy per-entity files;
// a corrupt snapshot falls back to an empty state with a warning, the
// worst case being a revert to defaults rather than a hard failure.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewSnapshotError(dir, "mkdir", err)
	}

	s := &Store{
		path:   filepath.Join(dir, SnapshotFile),
		logger: logger,
	}

	doc, err := readSnapshot(s.path)
	switch {
	case err == nil:
		s.state = FromDocument(doc)
	case os.IsNotExist(err):
		if legacy, ok := migrateLegacy(dir, logger); ok {
			s.state = FromDocument(legacy)
			if werr := writeSnapshot(s.path, s.state.ToDocument()); werr != nil {
				return nil, werr
			}
			logger.Info().Str("path", s.path).Msg("Migrated legacy data files into snapshot")
		} else {
			s.state = NewState()
		}
	default:
		logging.LogSnapshot(logger, "read", s.path, err)
		s.state = NewState()
	}

	return s, nil
}

// Apply runs one transactional mutation. The mutation sees a deep copy
// of the state; only when it returns nil and the snapshot write
// succeeds does the copy become the live state.
func (s *Store) Apply(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.state.Clone()
	if err != nil {
		return apperrors.Wrap(err, "cloning state")
	}

	if err := fn(next); err != nil {
		return err
	}

	if err := writeSnapshot(s.path, next.ToDocument()); err != nil {
		logging.LogSnapshot(s.logger, "write", s.path, err)
		return err
	}

	s.state = next
	return nil
}

// View runs a read-only function against the current state. The
// callback must not retain or mutate the state.
func (s *Store) View(fn func(*State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// ExportJSON serializes the full state as the consolidated
// export/import document.
func (s *Store) ExportJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.state.ToDocument(), "", "  ")
}

// ImportJSON wholesale-overwrites every collection from an exported
// document. Missing fields fall back to empty defaults.
func (s *Store) ImportJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return apperrors.NewSnapshotError(s.path, "import", apperrors.ErrSnapshotCorrupt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := FromDocument(&doc)
	if err := writeSnapshot(s.path, next.ToDocument()); err != nil {
		return err
	}

	s.state = next
	return nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}
