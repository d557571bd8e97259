// Package app implements the application layer for forge.
package app

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App ties the engine together for host applications and the CLI. Host
// applications construct their target graph programmatically, load or
// build an Environment and call Build or Describe; the CLI additionally
// uses Clean for stamp cache maintenance.
type App struct {
	scheduler *scheduler.Scheduler
	envLoader ports.EnvironmentLoader
	store     ports.StampStore
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	sched *scheduler.Scheduler,
	envLoader ports.EnvironmentLoader,
	store ports.StampStore,
	logger ports.Logger,
) *App {
	return &App{
		scheduler: sched,
		envLoader: envLoader,
		store:     store,
		logger:    logger,
	}
}

// LoadEnvironment reads the workspace configuration at path.
func (a *App) LoadEnvironment(path string) (*domain.Environment, error) {
	return a.envLoader.Load(path)
}

// Build executes the named targets in order against the environment.
// Each target's transitive dependencies complete before it runs; a
// failure aborts the remaining roots.
func (a *App) Build(ctx context.Context, graph *domain.Graph, env *domain.Environment, targetNames ...string) error {
	for _, name := range targetNames {
		if err := a.scheduler.Build(ctx, graph, env, name); err != nil {
			return zerr.Wrap(err, "build execution failed")
		}
	}
	return nil
}

// Describe resolves the named targets' closures read-only and returns
// one manifest per reachable target. Targets reachable from several
// roots appear once.
func (a *App) Describe(graph *domain.Graph, env *domain.Environment, targetNames ...string) ([]domain.TargetManifest, error) {
	var manifests []domain.TargetManifest
	seen := make(map[string]bool)

	for _, name := range targetNames {
		closure, err := a.scheduler.Describe(graph, env, name)
		if err != nil {
			return nil, err
		}
		for _, m := range closure {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			manifests = append(manifests, m)
		}
	}
	return manifests, nil
}

// Clean removes every stamp recorded under the environment's cache
// directory, forcing the next build to re-run all targets.
func (a *App) Clean(_ context.Context, env *domain.Environment) error {
	if err := a.store.Clean(env); err != nil {
		return err
	}
	a.logger.Info("stamp cache cleaned: " + env.CacheDir)
	return nil
}
