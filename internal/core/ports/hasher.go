package ports

import "go.trai.ch/forge/internal/core/domain"

// Hasher computes content signatures for resolved entities: a hash of
// the full byte contents for regular files, the last-modified timestamp
// for directories. Directory signatures are deliberately coarse; they
// do not attempt a recursive content hash.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Signature computes the current signature of an entity that exists
	// on disk.
	Signature(entity domain.Entity) (domain.Signature, error)
}
