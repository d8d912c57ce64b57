package history

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/adapters/diff"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the snapshot store Graft node.
const NodeID graft.ID = "adapter.repository"

func init() {
	graft.Register(graft.Node[ports.Repository]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValueNodeID, diff.NodeID},
		Run: func(ctx context.Context) (ports.Repository, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			differ, err := graft.Dep[ports.Differ](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(afero.NewOsFs(), cfg.BaseDir, differ), nil
		},
	})
}
