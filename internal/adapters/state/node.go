package state

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the install-state store Graft node.
const NodeID graft.ID = "adapter.install_state"

func init() {
	graft.Register(graft.Node[ports.InstallState]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValueNodeID},
		Run: func(ctx context.Context) (ports.InstallState, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(afero.NewOsFs(), filepath.Join(cfg.BaseDir, "installed.json"))
		},
	})
}
