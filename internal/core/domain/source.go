package domain

// EntityKind classifies a resolved file-system entity.
type EntityKind int

const (
	// EntityFile is a regular file.
	EntityFile EntityKind = iota
	// EntityDir is a directory.
	EntityDir
)

// Entity is a concrete file-system entity produced by source resolution.
// Path is absolute once resolution has run.
type Entity struct {
	Path string
	Kind EntityKind
}

// File returns a file entity for the given path.
func File(path string) Entity {
	return Entity{Path: path, Kind: EntityFile}
}

// Dir returns a directory entity for the given path.
func Dir(path string) Entity {
	return Entity{Path: path, Kind: EntityDir}
}

// SourceFunc produces file-system entities for an Environment. It is
// invoked synchronously during resolution and must not write to the
// file system; it may read it, e.g. to enumerate an existing directory.
type SourceFunc func(env *Environment) ([]Entity, error)

// Source declares one input or output of a Target. It is a sealed sum
// type with exactly two variants, PatternSource and FunctionSource;
// resolvers switch over the variants exhaustively.
type Source interface {
	isSource()
}

// PatternSource is a path template containing placeholder tokens such
// as {PROJECT_DIR}, {BUILD_DIR}, {CACHE_DIR}, {COPY_DIR}, {platform}
// and {mode}. A template ending in a path separator resolves to a
// directory entity.
type PatternSource struct {
	Template string
}

func (PatternSource) isSource() {}

// FunctionSource produces entities programmatically, for file sets that
// cannot be expressed as a single pattern (globs, discovered outputs).
type FunctionSource struct {
	Fn SourceFunc
}

func (FunctionSource) isSource() {}

// Pattern constructs a PatternSource from a template string.
func Pattern(template string) Source {
	return PatternSource{Template: template}
}

// Function constructs a FunctionSource from a callback.
func Function(fn SourceFunc) Source {
	return FunctionSource{Fn: fn}
}
