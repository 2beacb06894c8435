//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"presage/internal/config"
)

// InitializeApp wires the full dependency graph from configuration.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(
		ProvideCollector,
		ProvideOracle,
		ProvideSession,
		ProvideServer,
		NewApp,
	)
	return &App{}, nil
}
