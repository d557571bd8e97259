package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	progrockadapter "go.trai.ch/forge/internal/adapters/telemetry/progrock"
	"go.trai.ch/forge/internal/core/ports"
)

// RecorderNodeID is the unique identifier for the progress recorder Graft node.
const RecorderNodeID graft.ID = "adapter.telemetry.recorder"

func init() {
	graft.Register(graft.Node[ports.Recorder]{
		ID:        RecorderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Recorder, error) {
			return progrockadapter.New(), nil
		},
	})
}
