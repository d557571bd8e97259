package ports

import "go.trai.ch/forge/internal/core/domain"

// EnvironmentLoader reads a workspace configuration file and produces
// the immutable Environment for a build invocation.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type EnvironmentLoader interface {
	// Load reads the configuration at path. Relative directory entries
	// are resolved against the file's directory.
	Load(path string) (*domain.Environment, error)
}
