// Package stamp persists fingerprint stamp records on disk.
package stamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StampStore = (*Store)(nil)

// Store implements ports.StampStore with one JSON file per
// (target name, build mode, target platform) triple under the
// environment's cache directory. Rebuilding the same triple overwrites
// the same slot; different platforms or modes never share a slot.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Path returns the stamp file location for a target under the given
// environment.
func (s *Store) Path(env *domain.Environment, name domain.InternedString) string {
	filename := fmt.Sprintf("%s.%s.%s", name.String(), env.ModeName(), env.PlatformName())
	return filepath.Join(env.CacheDir, filename)
}

// Read returns the stamp recorded for the target. A missing, empty or
// unparsable stamp file yields nil with no error; the engine treats
// that as "no stamp" and re-runs the target.
func (s *Store) Read(env *domain.Environment, name domain.InternedString) (*domain.Stamp, error) {
	data, err := os.ReadFile(s.Path(env, name)) //nolint:gosec // Path derives from trusted environment
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read stamp"), "target", name.String())
	}
	if len(data) == 0 {
		return nil, nil
	}

	var stamp domain.Stamp
	if err := json.Unmarshal(data, &stamp); err != nil {
		// Corrupt stamps self-heal by forcing a run.
		return nil, nil
	}
	return &stamp, nil
}

// Write persists the stamp atomically, creating parent directories if
// needed. The record is written to a temporary file in the same
// directory and renamed into place.
func (s *Store) Write(env *domain.Environment, name domain.InternedString, stamp *domain.Stamp) error {
	data, err := json.MarshalIndent(stamp, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal stamp"), "target", name.String())
	}

	path := s.Path(env, name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create stamp directory")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary stamp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to write stamp"), "target", name.String())
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to close temporary stamp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, "failed to replace stamp"), "target", name.String())
	}
	return nil
}

// Clean removes the environment's cache directory and every stamp in it.
func (s *Store) Clean(env *domain.Environment) error {
	if err := os.RemoveAll(env.CacheDir); err != nil {
		return zerr.Wrap(err, "failed to clean stamp cache")
	}
	return nil
}
