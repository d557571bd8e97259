package domain

import "go.trai.ch/zerr"

var (
	// ErrTargetAlreadyExists is returned when adding a target whose name is already taken.
	ErrTargetAlreadyExists = zerr.New("target already exists")

	// ErrTargetNotFound is returned when a requested target is not registered in the graph.
	ErrTargetNotFound = zerr.New("no such target")

	// ErrMissingDependency is returned when a target depends on a name that is not in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when the dependency graph contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrMissingInput is returned when a resolved input does not exist on disk at evaluation time.
	ErrMissingInput = zerr.New("missing input")

	// ErrMissingOutput is returned when a declared output does not exist after a successful invocation.
	ErrMissingOutput = zerr.New("missing output")

	// ErrUnknownPlatform is returned for a platform name outside the known set.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrUnknownMode is returned for a build mode name outside the known set.
	ErrUnknownMode = zerr.New("unknown build mode")
)
