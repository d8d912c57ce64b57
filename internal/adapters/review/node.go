package review

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the reviewer Graft node.
const NodeID graft.ID = "adapter.reviewer"

func init() {
	graft.Register(graft.Node[ports.Reviewer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValueNodeID},
		Run: func(ctx context.Context) (ports.Reviewer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewConsole(os.Stdin, os.Stdout, cfg.AutoApprove), nil
		},
	})
}
