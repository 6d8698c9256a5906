package app

import (
	"log/slog"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Manager   *usecase.ContractManager
	Artifacts usecase.ArtifactRepository
	Builder   usecase.ContractBuilder

	// Use cases
	InitProject       *usecase.InitProject
	ListDeployments   *usecase.ListDeployments
	ListNetworks      *usecase.ListNetworks
	ManageAccounts    *usecase.ManageAccounts
	ComposeDeployment *usecase.ComposeDeployment
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	manager *usecase.ContractManager,
	artifacts usecase.ArtifactRepository,
	builder usecase.ContractBuilder,
	initProject *usecase.InitProject,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	manageAccounts *usecase.ManageAccounts,
	composeDeployment *usecase.ComposeDeployment,
) (*App, error) {
	return &App{
		Config:            cfg,
		Log:               log,
		Manager:           manager,
		Artifacts:         artifacts,
		Builder:           builder,
		InitProject:       initProject,
		ListDeployments:   listDeployments,
		ListNetworks:      listNetworks,
		ManageAccounts:    manageAccounts,
		ComposeDeployment: composeDeployment,
	}, nil
}
