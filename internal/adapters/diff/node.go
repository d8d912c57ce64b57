package diff

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the diff engine Graft node.
const NodeID graft.ID = "adapter.differ"

func init() {
	graft.Register(graft.Node[ports.Differ]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Differ, error) {
			return NewEngine(), nil
		},
	})
}
