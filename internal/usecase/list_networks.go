package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name     string
	RPCURL   string
	ChainID  string
	Accounts int
	Error    error
}

// ListNetworks is a use case for listing configured networks
type ListNetworks struct {
	config *config.RuntimeConfig
	prober NetworkProber
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, prober NetworkProber) *ListNetworks {
	return &ListNetworks{
		config: cfg,
		prober: prober,
	}
}

// Run probes every configured network for its chain id. Probe failures are reported per network.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	deployConfig := uc.config.DeployConfig
	if deployConfig == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}

	names := deployConfig.NetworkNames()
	networks := make([]NetworkStatus, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		nc := deployConfig.Networks[name]
		networks[i] = NetworkStatus{
			Name:     name,
			RPCURL:   nc.RPCURL,
			Accounts: len(nc.Accounts),
		}
		if nc.RPCURL == "" {
			networks[i].Error = fmt.Errorf("no rpc_url configured")
			continue
		}
		g.Go(func() error {
			chainID, err := uc.prober.ChainID(gctx, nc.RPCURL)
			if err != nil {
				networks[i].Error = err
				return nil
			}
			networks[i].ChainID = chainID
			return nil
		})
	}
	_ = g.Wait()

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.config.NetworkName(),
	}, nil
}
