package ports

import "go.trai.ch/aurum/internal/core/domain"

// ConfigLoader defines the interface for loading the runtime configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves defaults, the user config file and environment into
	// an explicit Config value.
	Load() (*domain.Config, error)
}
