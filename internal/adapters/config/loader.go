// Package config provides the workspace configuration loader.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.EnvironmentLoader = (*Loader)(nil)

// Defaults applied when a Forgefile omits a directory entry, relative
// to the project directory.
const (
	defaultBuildDir = "build"
	defaultCacheDir = ".forge"
	defaultCopyDir  = "dist"
)

// Loader reads a forge.yaml file into a domain.Environment.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration at path. The project directory defaults
// to the file's directory; build, cache and copy directories default to
// conventional locations under it. All directories are made absolute.
func (l *Loader) Load(path string) (*domain.Environment, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var file Forgefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve config directory")
	}

	projectDir := base
	if file.Project != "" {
		projectDir = absolute(base, file.Project)
	}

	platform, err := domain.ParsePlatform(file.Platform)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseMode(file.Mode)
	if err != nil {
		return nil, err
	}

	return &domain.Environment{
		ProjectDir: projectDir,
		BuildDir:   absoluteOr(projectDir, file.Build, defaultBuildDir),
		CacheDir:   absoluteOr(projectDir, file.Cache, defaultCacheDir),
		CopyDir:    absoluteOr(projectDir, file.Copy, defaultCopyDir),
		Platform:   platform,
		Mode:       mode,
	}, nil
}

func absoluteOr(base, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	return absolute(base, dir)
}

func absolute(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}
