package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultContractClassesDir = "target/dev"
	DefaultScriptsDir         = "src/scripts"
	DefaultNetworkName        = "sepolia"
)

// DeployConfig is the decoded starknet-deploy.toml
type DeployConfig struct {
	DefaultNetwork string                   `toml:"default_network"`
	Networks       map[string]NetworkConfig `toml:"networks"`
	Paths          PathsConfig              `toml:"paths"`
}

// NetworkConfig is a [networks.<name>] section
type NetworkConfig struct {
	RPCURL      string   `toml:"rpc_url"`
	ExplorerURL string   `toml:"explorer_url,omitempty"`
	Accounts    []string `toml:"accounts"`
	Addresses   []string `toml:"addresses"`
}

// PathsConfig is the [paths] section
//
// Root defaults to the project root, PackageName to the package name in
// Scarb.toml, ContractClasses to target/dev and Scripts to src/scripts.
type PathsConfig struct {
	Root            string `toml:"root,omitempty"`
	PackageName     string `toml:"package_name,omitempty"`
	ContractClasses string `toml:"contract_classes"`
	Scripts         string `toml:"scripts"`
}

// NetworkNames returns configured network names in sorted order
func (c *DeployConfig) NetworkNames() []string {
	names := lo.Keys(c.Networks)
	slices.Sort(names)
	return names
}

// Network resolves a configured network by name
func (c *DeployConfig) Network(name string) (*Network, error) {
	nc, ok := c.Networks[name]
	if !ok {
		return nil, fmt.Errorf("network '%s' not found in configuration (available: %s)", name, strings.Join(c.NetworkNames(), ", "))
	}
	explorer := nc.ExplorerURL
	if explorer == "" {
		explorer = defaultExplorerURL(name)
	}
	return &Network{
		Name:        name,
		RPCURL:      nc.RPCURL,
		ExplorerURL: strings.TrimSuffix(explorer, "/"),
		Accounts:    nc.Accounts,
		Addresses:   nc.Addresses,
	}, nil
}

// Network represents a resolved network configuration
type Network struct {
	Name        string   `json:"name"`
	RPCURL      string   `json:"rpcUrl"`
	ExplorerURL string   `json:"explorerUrl,omitempty"`
	Accounts    []string `json:"-"`
	Addresses   []string `json:"addresses"`
}

// TxURL returns the explorer link of a transaction, or the bare hash without an explorer
func (n *Network) TxURL(txHash string) string {
	if n == nil || n.ExplorerURL == "" {
		return txHash
	}
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, txHash)
}

// ContractURL returns the explorer link of a contract, or the bare address without an explorer
func (n *Network) ContractURL(address string) string {
	if n == nil || n.ExplorerURL == "" {
		return address
	}
	return fmt.Sprintf("%s/contract/%s", n.ExplorerURL, address)
}

func defaultExplorerURL(network string) string {
	switch network {
	case "mainnet":
		return "https://starkscan.co"
	case "sepolia":
		return "https://sepolia.starkscan.co"
	default:
		return ""
	}
}
