package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
)

// ConfigFileName is the project configuration file at the project root
const ConfigFileName = "starknet-deploy.toml"

// DefaultConfigTemplate is written by init and when a command runs without configuration
const DefaultConfigTemplate = `# starknet-deploy configuration
# Values of the form ${VAR} are read from the environment, .env and .env.local

default_network = "sepolia"

[networks.sepolia]
rpc_url = "${STARKNET_SEPOLIA_RPC_URL}"
explorer_url = "https://sepolia.starkscan.co"
accounts = ["${DEPLOYER_PRIVATE_KEY}"]
addresses = ["${DEPLOYER_ADDRESS}"]

[networks.local]
rpc_url = "http://localhost:5050"
accounts = []
addresses = []

[paths]
contract_classes = "target/dev"
scripts = "src/scripts"
`

// DefaultEnvExample is the .env.example scaffolded next to the configuration
const DefaultEnvExample = `STARKNET_SEPOLIA_RPC_URL=https://starknet-sepolia.public.blastapi.io
DEPLOYER_PRIVATE_KEY=
DEPLOYER_ADDRESS=
`

// LoadEnvFiles loads .env and .env.local from the project root when present
func LoadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
		}
	}
}

// LoadDeployConfig reads starknet-deploy.toml from the project root.
// When the file is missing it writes the default template and returns
// domain.ErrConfigCreated.
func LoadDeployConfig(projectRoot string) (*config.DeployConfig, error) {
	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := NewConfigFileWriter().WriteDefault(context.Background(), path); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w at %s, edit it and re-run the command", domain.ErrConfigCreated, path)
	}

	var cfg config.DeployConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}
	return finalizeDeployConfig(&cfg, projectRoot), nil
}

// DefaultDeployConfig parses the default template, used before init has written one
func DefaultDeployConfig(projectRoot string) (*config.DeployConfig, error) {
	var cfg config.DeployConfig
	if _, err := toml.Decode(DefaultConfigTemplate, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default configuration: %w", err)
	}
	return finalizeDeployConfig(&cfg, projectRoot), nil
}

// finalizeDeployConfig expands environment variables and fills defaults
func finalizeDeployConfig(cfg *config.DeployConfig, projectRoot string) *config.DeployConfig {
	for name, nc := range cfg.Networks {
		nc.RPCURL = os.ExpandEnv(nc.RPCURL)
		nc.ExplorerURL = os.ExpandEnv(nc.ExplorerURL)
		nc.Accounts = expandAll(nc.Accounts)
		nc.Addresses = expandAll(nc.Addresses)
		cfg.Networks[name] = nc
	}

	cfg.Paths.Root = os.ExpandEnv(cfg.Paths.Root)
	cfg.Paths.ContractClasses = os.ExpandEnv(cfg.Paths.ContractClasses)
	cfg.Paths.Scripts = os.ExpandEnv(cfg.Paths.Scripts)

	if cfg.DefaultNetwork == "" {
		cfg.DefaultNetwork = config.DefaultNetworkName
	}
	if cfg.Paths.ContractClasses == "" {
		cfg.Paths.ContractClasses = config.DefaultContractClassesDir
	}
	if cfg.Paths.Scripts == "" {
		cfg.Paths.Scripts = config.DefaultScriptsDir
	}
	if cfg.Paths.PackageName == "" {
		cfg.Paths.PackageName = ScarbPackageName(projectRoot)
	}
	return cfg
}

func expandAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(os.ExpandEnv(v))
	}
	return out
}

// ConfigFileWriter writes the default starknet-deploy.toml
type ConfigFileWriter struct{}

// NewConfigFileWriter creates a new ConfigFileWriter
func NewConfigFileWriter() *ConfigFileWriter {
	return &ConfigFileWriter{}
}

// WriteDefault writes the default template to path
func (w *ConfigFileWriter) WriteDefault(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
