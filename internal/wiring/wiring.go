// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/aurum/internal/adapters/config"
	_ "go.trai.ch/aurum/internal/adapters/diff"
	_ "go.trai.ch/aurum/internal/adapters/fetch"
	_ "go.trai.ch/aurum/internal/adapters/history"
	_ "go.trai.ch/aurum/internal/adapters/logger"
	_ "go.trai.ch/aurum/internal/adapters/pacman"
	_ "go.trai.ch/aurum/internal/adapters/patchstore"
	_ "go.trai.ch/aurum/internal/adapters/review"
	_ "go.trai.ch/aurum/internal/adapters/state"
	_ "go.trai.ch/aurum/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/aurum/internal/app"
	_ "go.trai.ch/aurum/internal/engine/workflow"
)
