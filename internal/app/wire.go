//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/starknet-deploy/internal/adapters"
	"github.com/trebuchet-org/starknet-deploy/internal/config"
	"github.com/trebuchet-org/starknet-deploy/internal/logging"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

var usecaseSet = wire.NewSet(
	usecase.NewContractManager,
	wire.Bind(new(usecase.ContractDeployer), new(*usecase.ContractManager)),
	usecase.NewInitProject,
	usecase.NewListDeployments,
	usecase.NewListNetworks,
	usecase.NewManageAccounts,
	usecase.NewComposeDeployment,
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,
		adapters.AllAdapters,
		usecaseSet,
		NewApp,
	)
	return nil, nil
}

// InitContractManager wires only what the contract manager needs
func InitContractManager(v *viper.Viper, sink usecase.ProgressSink) (*usecase.ContractManager, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,
		adapters.RepositorySet,
		adapters.StarknetSet,
		usecase.NewContractManager,
	)
	return nil, nil
}
