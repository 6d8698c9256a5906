package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// AccountsResult lists the signers of the active network
type AccountsResult struct {
	Network  string
	Active   int
	Accounts []models.AccountCredential
}

// UseAccountParams selects the account to persist. A nil Index asks the selector.
type UseAccountParams struct {
	Index *int
}

// UseAccountResult is the account made active
type UseAccountResult struct {
	Network    string
	Index      int
	Address    string
	ConfigPath string
}

// ManageAccounts lists configured signers and persists the active one in the local config
type ManageAccounts struct {
	config   *config.RuntimeConfig
	manager  *ContractManager
	selector AccountSelector
	store    LocalConfigRepository
}

// NewManageAccounts creates a new ManageAccounts use case
func NewManageAccounts(
	cfg *config.RuntimeConfig,
	manager *ContractManager,
	selector AccountSelector,
	store LocalConfigRepository,
) *ManageAccounts {
	return &ManageAccounts{
		config:   cfg,
		manager:  manager,
		selector: selector,
		store:    store,
	}
}

// List returns the credentials of the active network with private keys left out
func (uc *ManageAccounts) List(ctx context.Context) (*AccountsResult, error) {
	creds, err := uc.manager.Credentials()
	if err != nil {
		return nil, err
	}
	for i := range creds {
		creds[i].PrivateKey = ""
	}
	return &AccountsResult{
		Network:  uc.config.NetworkName(),
		Active:   uc.config.AccountIndex,
		Accounts: creds,
	}, nil
}

// Use verifies that the chosen account can be loaded and saves it with the
// active network to the local config
func (uc *ManageAccounts) Use(ctx context.Context, params UseAccountParams) (*UseAccountResult, error) {
	index, err := uc.resolveIndex(ctx, params)
	if err != nil {
		return nil, err
	}

	account, err := uc.manager.UpdateAccount(ctx, AccountAt(index))
	if err != nil {
		return nil, err
	}

	local, err := uc.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	local.Network = uc.config.NetworkName()
	local.Account = index
	if err := uc.store.Save(ctx, local); err != nil {
		return nil, err
	}

	return &UseAccountResult{
		Network:    local.Network,
		Index:      index,
		Address:    account.Address(),
		ConfigPath: uc.store.GetPath(),
	}, nil
}

func (uc *ManageAccounts) resolveIndex(ctx context.Context, params UseAccountParams) (int, error) {
	if params.Index != nil {
		return *params.Index, nil
	}
	if uc.config.NonInteractive {
		return 0, fmt.Errorf("account index is required in non-interactive mode")
	}
	creds, err := uc.manager.Credentials()
	if err != nil {
		return 0, err
	}
	if len(creds) == 0 {
		return 0, fmt.Errorf("no accounts configured for network %s", uc.config.NetworkName())
	}
	return uc.selector.SelectAccount(ctx, creds, fmt.Sprintf("Select account for %s", uc.config.NetworkName()))
}
