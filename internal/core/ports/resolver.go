// Package ports defines the core interfaces for the engine.
package ports

import "go.trai.ch/forge/internal/core/domain"

// SourceResolver expands declarative sources into concrete file-system
// entities for one Environment. Resolution is deterministic for a fixed
// Environment, preserves declaration order, does not deduplicate, and
// performs no file-system writes.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SourceResolver interface {
	// Resolve expands the given sources against the environment.
	Resolve(sources []domain.Source, env *domain.Environment) ([]domain.Entity, error)
}
