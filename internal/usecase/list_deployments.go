package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// DeploymentListResult contains the ledger entries of a network
type DeploymentListResult struct {
	Network    *config.Network
	LedgerPath string
	Entries    []models.LedgerEntry
}

// ListDeployments is the use case for listing recorded contract addresses
type ListDeployments struct {
	config *config.RuntimeConfig
	ledger AddressLedger
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, ledger AddressLedger, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		ledger: ledger,
		sink:   sink,
	}
}

// Run lists the ledger of the active network sorted by contract name
func (uc *ListDeployments) Run(ctx context.Context) (*DeploymentListResult, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}
	network := uc.config.Network.Name

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: fmt.Sprintf("Loading deployments for %s", network),
		Spinner: true,
	})

	entries, err := uc.ledger.List(ctx, network)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Network:    uc.config.Network,
		LedgerPath: uc.ledger.GetPath(network),
		Entries:    entries,
	}, nil
}
