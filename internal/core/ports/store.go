package ports

import "go.trai.ch/forge/internal/core/domain"

// StampStore persists stamp records keyed by the
// (target name, build mode, target platform) triple of an Environment.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StampStore interface {
	// Read returns the stamp recorded for the target, or nil and no
	// error when no usable stamp exists. An unreadable or corrupt stamp
	// file is treated as absent, not as a failure.
	Read(env *domain.Environment, name domain.InternedString) (*domain.Stamp, error)

	// Write persists the stamp for the target, overwriting the previous
	// record for the same triple. The write is atomic.
	Write(env *domain.Environment, name domain.InternedString, stamp *domain.Stamp) error

	// Clean removes every stamp recorded under the environment's cache
	// directory.
	Clean(env *domain.Environment) error
}
