package config

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ValueNodeID is the unique identifier for the resolved Config node.
	ValueNodeID graft.ID = "config.value"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ConfigLoader, error) {
			l := NewLoader()
			l.File = os.Getenv("AURUM_CONFIG")
			return l, nil
		},
	})

	// The configuration is loaded once and shared by every adapter that
	// needs a piece of it.
	graft.Register(graft.Node[*domain.Config]{
		ID:        ValueNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (*domain.Config, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return loader.Load()
		},
	})
}
