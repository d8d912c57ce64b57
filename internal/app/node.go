package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/adapters/diff"
	"go.trai.ch/aurum/internal/adapters/history"
	"go.trai.ch/aurum/internal/adapters/logger"
	"go.trai.ch/aurum/internal/adapters/patchstore"
	"go.trai.ch/aurum/internal/adapters/state"
	"go.trai.ch/aurum/internal/adapters/telemetry"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/aurum/internal/engine/workflow"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ValueNodeID,
			history.NodeID,
			patchstore.NodeID,
			state.NodeID,
			diff.NodeID,
			workflow.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			repo, err := graft.Dep[ports.Repository](ctx)
			if err != nil {
				return nil, err
			}
			patches, err := graft.Dep[ports.Patches](ctx)
			if err != nil {
				return nil, err
			}
			installState, err := graft.Dep[ports.InstallState](ctx)
			if err != nil {
				return nil, err
			}
			differ, err := graft.Dep[ports.Differ](ctx)
			if err != nil {
				return nil, err
			}
			orch, err := graft.Dep[*workflow.Orchestrator](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg, repo, patches, installState, differ, orch, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			config.ValueNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{
				App:       a,
				Config:    cfg,
				Logger:    log,
				Telemetry: tel,
			}, nil
		},
	})
}
