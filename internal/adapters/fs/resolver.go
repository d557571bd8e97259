// Package fs provides the file-system adapters: source resolution,
// content signatures and glob helpers.
package fs

import (
	"path/filepath"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Placeholder tokens recognized in pattern sources. Substitution is
// literal and case-sensitive, in a fixed order: ambient directory
// tokens first, then {platform}, then {mode}.
const (
	TokenProjectDir = "{PROJECT_DIR}"
	TokenBuildDir   = "{BUILD_DIR}"
	TokenCacheDir   = "{CACHE_DIR}"
	TokenCopyDir    = "{COPY_DIR}"
	TokenPlatform   = "{platform}"
	TokenMode       = "{mode}"
)

// Resolver expands declarative sources into concrete file-system
// entities for one Environment.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve expands every source against the environment. Per-source
// results are concatenated in declaration order and duplicates are
// kept; callers rely on the full list for stamping.
func (r *Resolver) Resolve(sources []domain.Source, env *domain.Environment) ([]domain.Entity, error) {
	var entities []domain.Entity
	for _, source := range sources {
		switch src := source.(type) {
		case domain.PatternSource:
			entity, err := r.expandPattern(src.Template, env)
			if err != nil {
				return nil, err
			}
			entities = append(entities, entity)
		case domain.FunctionSource:
			produced, err := src.Fn(env)
			if err != nil {
				return nil, zerr.Wrap(err, "source callback failed")
			}
			entities = append(entities, produced...)
		default:
			// Source is sealed; a third variant is a programming error.
			return nil, zerr.With(zerr.New("unknown source variant"), "source", source)
		}
	}
	return entities, nil
}

// expandPattern substitutes the recognized tokens and normalizes the
// result to a native path. A template ending in a path separator
// classifies as a directory entity.
func (r *Resolver) expandPattern(template string, env *domain.Environment) (domain.Entity, error) {
	s := template
	s = strings.ReplaceAll(s, TokenProjectDir, dirToken(env.ProjectDir))
	s = strings.ReplaceAll(s, TokenBuildDir, dirToken(env.BuildDir))
	s = strings.ReplaceAll(s, TokenCacheDir, dirToken(env.CacheDir))
	s = strings.ReplaceAll(s, TokenCopyDir, dirToken(env.CopyDir))

	if strings.Contains(s, TokenPlatform) {
		if env.Platform == "" {
			return domain.Entity{}, zerr.With(zerr.New("pattern requires a target platform"), "pattern", template)
		}
		s = strings.ReplaceAll(s, TokenPlatform, string(env.Platform))
	}
	if strings.Contains(s, TokenMode) {
		if env.Mode == "" {
			return domain.Entity{}, zerr.With(zerr.New("pattern requires a build mode"), "pattern", template)
		}
		s = strings.ReplaceAll(s, TokenMode, string(env.Mode))
	}

	isDir := strings.HasSuffix(s, "/")
	path := filepath.Clean(filepath.FromSlash(s))
	if isDir {
		return domain.Dir(path), nil
	}
	return domain.File(path), nil
}

// dirToken renders a directory for token substitution: slash-separated
// with a single trailing separator, so templates concatenate cleanly.
func dirToken(dir string) string {
	return strings.TrimSuffix(filepath.ToSlash(dir), "/") + "/"
}
