package fs

import (
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// GlobSource returns a function source that enumerates the files
// matching pattern underneath the environment's project directory.
// Matches are returned sorted for deterministic resolution; zero
// matches is an error, since an input glob that matches nothing usually
// indicates a broken target declaration.
func GlobSource(pattern string) domain.Source {
	return domain.Function(func(env *domain.Environment) ([]domain.Entity, error) {
		full := filepath.Join(env.ProjectDir, pattern)

		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", full)
		}
		if len(matches) == 0 {
			return nil, zerr.With(zerr.New("glob matched nothing"), "pattern", full)
		}
		sort.Strings(matches)

		entities := make([]domain.Entity, 0, len(matches))
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to stat glob match"), "path", match)
			}
			if info.IsDir() {
				entities = append(entities, domain.Dir(match))
			} else {
				entities = append(entities, domain.File(match))
			}
		}
		return entities, nil
	})
}
