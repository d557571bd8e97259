package fs

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes content signatures for resolved entities using
// XXHash for file contents. Directories are signed by their
// last-modified timestamp only; recursive content hashing is not
// attempted, so a changed file inside an otherwise untouched directory
// does not alter the directory's signature.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Signature computes the current signature of an entity on disk.
func (h *Hasher) Signature(entity domain.Entity) (domain.Signature, error) {
	info, err := os.Stat(entity.Path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat entity"), "path", entity.Path)
	}

	if entity.Kind == domain.EntityDir || info.IsDir() {
		return domain.Signature("mtime:" + strconv.FormatInt(info.ModTime().UnixNano(), 10)), nil
	}

	sum, err := h.hashFile(entity.Path)
	if err != nil {
		return "", err
	}
	return domain.Signature(fmt.Sprintf("xxh64:%016x", sum)), nil
}

// hashFile computes the XXHash of a file's full byte contents.
func (h *Hasher) hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}
