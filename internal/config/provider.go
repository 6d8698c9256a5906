package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
)

// DataDirName holds per-checkout state such as config.local.json and compose progress
const DataDirName = ".starknet-deploy"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		ConfigPath:      filepath.Join(projectRoot, ConfigFileName),
		DataDir:         filepath.Join(projectRoot, DataDirName),
		AccountIndex:    v.GetInt("account"),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		Timeout:         v.GetDuration("timeout"),
		FinalityTimeout: v.GetDuration("finality_timeout"),
		PollInterval:    v.GetDuration("poll_interval"),
	}

	LoadEnvFiles(projectRoot)

	// init scaffolds the file itself, so it runs against the default template
	scaffold := v.GetBool("scaffold")
	deployConfig, err := loadDeployConfig(cfg.ConfigPath, projectRoot, scaffold)
	if err != nil {
		return nil, err
	}
	cfg.DeployConfig = deployConfig

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = deployConfig.DefaultNetwork
	}
	network, err := deployConfig.Network(networkName)
	if err != nil {
		if scaffold {
			return cfg, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkNotFound, err)
	}
	cfg.Network = network

	return cfg, nil
}

func loadDeployConfig(path, projectRoot string, scaffold bool) (*config.DeployConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && scaffold {
		return DefaultDeployConfig(projectRoot)
	}
	deployConfig, err := LoadDeployConfig(projectRoot)
	if err != nil {
		if errors.Is(err, domain.ErrConfigCreated) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return deployConfig, nil
}

// FindProjectRoot walks up from the current directory to find starknet-deploy.toml or Scarb.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(dir)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		for _, marker := range []string{ConfigFileName, "Scarb.toml"} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Starknet project (%s or Scarb.toml not found)", ConfigFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// config.local.json written by `accounts use` overrides network and account
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	v.SetEnvPrefix("STARKNET_DEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "10m")
	v.SetDefault("finality_timeout", "5m")
	v.SetDefault("poll_interval", "5s")
	v.SetDefault("account", 0)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Missing config.local.json is fine
	_ = v.ReadInConfig()

	return v
}
