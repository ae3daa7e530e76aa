package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
	"github.com/fulviofreitas/eero-exporter/internal/ports"
)

// Store persists the eero session as a JSON file with owner-only
// permissions. Load and Validate reread the file every time, so a login
// performed by another process takes effect on the next collection cycle.
type Store struct {
	path string
}

var _ ports.SessionValidator = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a session file is present at all. The CLI
// distinguishes an absent file from a present-but-invalid one.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the stored session. A missing file is not an error; it yields
// an empty, invalid session.
func (s *Store) Load() (_ domain.Session, retErr error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("open session file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close session file: %w", cerr)
		}
	}()

	var sess domain.Session
	if err := json.NewDecoder(f).Decode(&sess); err != nil {
		return domain.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	return sess, nil
}

// Save writes the session atomically: encode to a temp file in the target
// directory, then rename over the destination. The directory is owner-only,
// the file 0600.
func (s *Store) Save(sess domain.Session) (retErr error) {
	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create tmp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	closed := false
	defer func() {
		if !closed {
			if cerr := tmp.Close(); cerr != nil && retErr == nil {
				retErr = fmt.Errorf("close tmp: %w", cerr)
			}
		}
		if cleanup {
			if err := os.Remove(tmpName); err != nil && retErr == nil {
				retErr = fmt.Errorf("remove tmp: %w", err)
			}
		}
	}()
	if err := tmp.Chmod(0o600); err != nil {
		return fmt.Errorf("chmod tmp: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sess); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close tmp: %w", err)
	}
	closed = true
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	cleanup = false
	return nil
}

// Clear removes the session file. Clearing an absent file succeeds.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Validate implements ports.SessionValidator by rereading the file, which
// is what lets the collection loop heal after an external login.
func (s *Store) Validate(_ context.Context) bool {
	sess, err := s.Load()
	if err != nil {
		return false
	}
	return sess.Valid()
}
