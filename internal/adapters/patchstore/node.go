package patchstore

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/adapters/diff"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the patch store Graft node.
const NodeID graft.ID = "adapter.patches"

func init() {
	graft.Register(graft.Node[ports.Patches]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValueNodeID, diff.NodeID},
		Run: func(ctx context.Context) (ports.Patches, error) {
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
