package config

import (
	"path/filepath"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigPath  string
	DataDir     string // .starknet-deploy under the project root

	// Context settings
	Network      *Network // active network, resolved from flags or default_network
	AccountIndex int      // index into Network.Accounts used for the initial signer

	// Execution settings
	Debug           bool
	NonInteractive  bool
	Timeout         time.Duration
	FinalityTimeout time.Duration
	PollInterval    time.Duration

	// Resolved configuration file
	DeployConfig *DeployConfig
}

// PackageName returns the cairo package prefix of compiled artifacts
func (c *RuntimeConfig) PackageName() string {
	if c.DeployConfig == nil {
		return ""
	}
	return c.DeployConfig.Paths.PackageName
}

// ArtifactDir returns the absolute directory holding compiled contract classes
func (c *RuntimeConfig) ArtifactDir() string {
	dir := DefaultContractClassesDir
	if c.DeployConfig != nil && c.DeployConfig.Paths.ContractClasses != "" {
		dir = c.DeployConfig.Paths.ContractClasses
	}
	return c.resolve(dir)
}

// ScriptsDir returns the absolute scripts directory
func (c *RuntimeConfig) ScriptsDir() string {
	dir := DefaultScriptsDir
	if c.DeployConfig != nil && c.DeployConfig.Paths.Scripts != "" {
		dir = c.DeployConfig.Paths.Scripts
	}
	return c.resolve(dir)
}

// NetworkName returns the name of the active network, or "" when none is configured
func (c *RuntimeConfig) NetworkName() string {
	if c.Network == nil {
		return ""
	}
	return c.Network.Name
}

func (c *RuntimeConfig) root() string {
	if c.DeployConfig != nil && c.DeployConfig.Paths.Root != "" {
		if filepath.IsAbs(c.DeployConfig.Paths.Root) {
			return c.DeployConfig.Paths.Root
		}
		return filepath.Join(c.ProjectRoot, c.DeployConfig.Paths.Root)
	}
	return c.ProjectRoot
}

func (c *RuntimeConfig) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.root(), dir)
}
