package domain

import (
	"context"
	"slices"
)

// Invocation is the callback that performs a target's actual work. The
// engine does not interpret its internals, only its error and the
// output files it leaves on disk. Implementations receive the resolved
// input entities and the build Environment.
type Invocation func(ctx context.Context, inputs []Entity, env *Environment) error

// Target is the unit of build work. Targets are immutable value objects
// created once at graph-construction time by the host application; the
// engine only reads their declared fields.
type Target struct {
	// Name uniquely identifies the target within a graph.
	Name InternedString

	// Inputs declare the files the target reads.
	Inputs []Source

	// Outputs declare the files the target produces.
	Outputs []Source

	// Dependencies names the targets that must complete before this
	// target may run. Targets are referenced by name so the graph stays
	// an arena keyed by stable identity rather than a pointer tree.
	Dependencies []InternedString

	// Invoke performs the work. A nil Invoke is a no-op step.
	Invoke Invocation

	// Phony marks a target that always runs; stamping is skipped
	// entirely for phony targets.
	Phony bool

	// Platforms restricts the target to the listed platforms. Empty
	// means the target applies to all platforms.
	Platforms []Platform

	// Modes restricts the target to the listed build modes. Empty means
	// the target applies to all modes.
	Modes []Mode
}

// AppliesTo reports whether the target is applicable to the given
// Environment's platform and mode.
func (t *Target) AppliesTo(env *Environment) bool {
	if len(t.Platforms) > 0 && !slices.Contains(t.Platforms, env.Platform) {
		return false
	}
	if len(t.Modes) > 0 && !slices.Contains(t.Modes, env.Mode) {
		return false
	}
	return true
}
