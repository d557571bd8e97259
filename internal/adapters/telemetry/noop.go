// Package telemetry provides progress recording adapters.
package telemetry

import "go.trai.ch/forge/internal/core/ports"

var _ ports.Recorder = (*NoopRecorder)(nil)

// NoopRecorder is a no-op implementation of ports.Recorder, used when
// the engine is embedded without a progress surface.
type NoopRecorder struct{}

// NewNoopRecorder creates a new NoopRecorder.
func NewNoopRecorder() *NoopRecorder {
	return &NoopRecorder{}
}

// Vertex returns a no-op vertex.
func (r *NoopRecorder) Vertex(_ string) ports.Vertex {
	return noopVertex{}
}

// Close does nothing.
func (r *NoopRecorder) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Cached()          {}
func (noopVertex) Complete(_ error) {}
