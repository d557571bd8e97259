package ports

// Recorder receives progress events for one build call. Each target is
// recorded as a vertex; a vertex either completes (successfully or with
// an error) or is marked cached when its invocation was skipped.
//
//go:generate go run go.uber.org/mock/mockgen -source=recorder.go -destination=mocks/mock_recorder.go -package=mocks
type Recorder interface {
	// Vertex starts recording a unit of work under the given name.
	Vertex(name string) Vertex

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Cached marks the vertex as skipped due to a fingerprint hit.
	Cached()

	// Complete marks the vertex as finished.
	Complete(err error)
}
