package app

import (
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// Components contains all the initialized application components the
// command layer needs.
type Components struct {
	App       *App
	Config    *domain.Config
	Logger    ports.Logger
	Telemetry ports.Telemetry
}
