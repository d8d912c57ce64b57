package workflow

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/aurum/internal/adapters/config"
	"go.trai.ch/aurum/internal/adapters/fetch"
	"go.trai.ch/aurum/internal/adapters/history"
	"go.trai.ch/aurum/internal/adapters/logger"
	"go.trai.ch/aurum/internal/adapters/pacman"
	"go.trai.ch/aurum/internal/adapters/patchstore"
	"go.trai.ch/aurum/internal/adapters/review"
	"go.trai.ch/aurum/internal/adapters/state"
	"go.trai.ch/aurum/internal/adapters/telemetry"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// NodeID is the unique identifier for the orchestrator Graft node.
const NodeID graft.ID = "engine.workflow"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ValueNodeID,
			fetch.NodeID,
			history.NodeID,
			patchstore.NodeID,
			state.NodeID,
			pacman.NodeID,
			review.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
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
			installer, err := graft.Dep[ports.Installer](ctx)
			if err != nil {
				return nil, err
			}
			reviewer, err := graft.Dep[ports.Reviewer](ctx)
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
			return New(cfg, fetcher, repo, patches, installState, installer, reviewer, log, tel), nil
		},
	})
}
