package fetch

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the fetcher Graft node.
const NodeID graft.ID = "adapter.fetcher"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValueNodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			catalog := NewCatalogClient(cfg.CatalogURL)
			local := NewLocalSource(afero.NewOsFs())
			return NewDispatcher(catalog, local), nil
		},
	})
}
