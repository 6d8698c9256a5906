package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
)

// InitProject scaffolds the scripts layout, ledger and configuration of a project
type InitProject struct {
	config       *config.RuntimeConfig
	fileWriter   FileWriter
	configWriter ConfigWriter
	ledger       AddressLedger
	progress     ProgressSink
}

// NewInitProject creates a new init project use case
func NewInitProject(
	cfg *config.RuntimeConfig,
	fileWriter FileWriter,
	configWriter ConfigWriter,
	ledger AddressLedger,
	progress ProgressSink,
) *InitProject {
	return &InitProject{
		config:       cfg,
		fileWriter:   fileWriter,
		configWriter: configWriter,
		ledger:       ledger,
		progress:     progress,
	}
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	ProjectRoot        string
	PackageName        string
	ScriptsDir         string
	ConfigCreated      bool
	LedgerCreated      bool
	AlreadyInitialized bool
	Steps              []InitStep
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string
	Success bool
	Skipped bool
	Path    string
	Message string
	Error   error
}

// Execute creates whatever part of the layout is missing. Existing files are never overwritten.
func (i *InitProject) Execute(ctx context.Context) (*InitProjectResult, error) {
	scriptsDir := i.config.ScriptsDir()
	result := &InitProjectResult{
		ProjectRoot: i.config.ProjectRoot,
		PackageName: i.config.PackageName(),
		ScriptsDir:  scriptsDir,
		Steps:       []InitStep{},
	}

	i.progress.OnProgress(ctx, ProgressEvent{
		Stage:   "init",
		Message: fmt.Sprintf("Initializing project structure for %s", displayName(result.PackageName)),
		Spinner: true,
	})

	steps := []func(context.Context) InitStep{
		i.createConfig,
		i.createDirectory("Create deployments directory", filepath.Join(scriptsDir, "deployments")),
		i.createDirectory("Create tasks directory", filepath.Join(scriptsDir, "tasks")),
		i.createFile("Create example deployment script",
			filepath.Join(scriptsDir, "deployments", "example_deployment", "main.go"), exampleDeploymentScript),
		i.createFile("Create example task", filepath.Join(scriptsDir, "tasks", "example_task", "main.go"), exampleTaskScript),
		i.createLedger,
		i.createFile("Create environment example", filepath.Join(i.config.ProjectRoot, ".env.example"), envExample),
	}

	skipped := 0
	for _, run := range steps {
		step := run(ctx)
		result.Steps = append(result.Steps, step)
		if step.Error != nil {
			return result, step.Error
		}
		if step.Skipped {
			skipped++
		}
		switch step.Name {
		case stepCreateConfig:
			result.ConfigCreated = !step.Skipped
		case stepCreateLedger:
			result.LedgerCreated = !step.Skipped
		}
	}
	result.AlreadyInitialized = skipped == len(steps)

	return result, nil
}

const (
	stepCreateConfig = "Create configuration"
	stepCreateLedger = "Create address ledger"
)

func (i *InitProject) createConfig(ctx context.Context) InitStep {
	path := i.config.ConfigPath
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: stepCreateConfig, Path: path, Error: fmt.Errorf("failed to check %s: %w", path, err)}
	}
	if exists {
		return InitStep{Name: stepCreateConfig, Success: true, Skipped: true, Path: path, Message: "already exists"}
	}
	if err := i.configWriter.WriteDefault(ctx, path); err != nil {
		return InitStep{Name: stepCreateConfig, Path: path, Error: err}
	}
	return InitStep{Name: stepCreateConfig, Success: true, Path: path, Message: "created with default networks"}
}

func (i *InitProject) createLedger(ctx context.Context) InitStep {
	network := i.config.DeployConfig.DefaultNetwork
	path := i.ledger.GetPath(network)
	exists, err := i.fileWriter.FileExists(ctx, path)
	if err != nil {
		return InitStep{Name: stepCreateLedger, Path: path, Error: fmt.Errorf("failed to check %s: %w", path, err)}
	}
	if exists {
		return InitStep{Name: stepCreateLedger, Success: true, Skipped: true, Path: path, Message: "already exists"}
	}
	if err := i.fileWriter.WriteFile(ctx, path, "{}\n"); err != nil {
		return InitStep{Name: stepCreateLedger, Path: path, Error: fmt.Errorf("failed to create %s: %w", path, err)}
	}
	return InitStep{Name: stepCreateLedger, Success: true, Path: path, Message: fmt.Sprintf("empty ledger for %s", network)}
}

func (i *InitProject) createDirectory(name, path string) func(context.Context) InitStep {
	return func(ctx context.Context) InitStep {
		exists, err := i.fileWriter.FileExists(ctx, path)
		if err != nil {
			return InitStep{Name: name, Path: path, Error: fmt.Errorf("failed to check %s: %w", path, err)}
		}
		if exists {
			return InitStep{Name: name, Success: true, Skipped: true, Path: path, Message: "already exists"}
		}
		if err := i.fileWriter.EnsureDirectory(ctx, path); err != nil {
			return InitStep{Name: name, Path: path, Error: fmt.Errorf("failed to create %s: %w", path, err)}
		}
		return InitStep{Name: name, Success: true, Path: path}
	}
}

func (i *InitProject) createFile(name, path, content string) func(context.Context) InitStep {
	return func(ctx context.Context) InitStep {
		exists, err := i.fileWriter.FileExists(ctx, path)
		if err != nil {
			return InitStep{Name: name, Path: path, Error: fmt.Errorf("failed to check %s: %w", path, err)}
		}
		if exists {
			return InitStep{Name: name, Success: true, Skipped: true, Path: path, Message: "already exists"}
		}
		if err := i.fileWriter.WriteFile(ctx, path, content); err != nil {
			return InitStep{Name: name, Path: path, Error: fmt.Errorf("failed to create %s: %w", path, err)}
		}
		return InitStep{Name: name, Success: true, Path: path}
	}
}

func displayName(pkg string) string {
	if pkg == "" {
		return "project"
	}
	return pkg
}

const exampleDeploymentScript = `package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trebuchet-org/starknet-deploy/pkg/starkdeploy"
)

func main() {
	ctx := context.Background()

	manager, err := starkdeploy.InitializeContractManager(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := manager.DeployContract(ctx, starkdeploy.DeploymentConfig{
		ContractName: "<contract_name>",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
`

const exampleTaskScript = `package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/trebuchet-org/starknet-deploy/pkg/starkdeploy"
)

func main() {
	param := flag.String("param", "", "Param definition")
	flag.Parse()

	ctx := context.Background()
	manager, err := starkdeploy.InitializeContractManager(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	result, err := manager.QueryContract(ctx, starkdeploy.RefFromName("<contract_name>"), "<function_name>", []any{*param})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(result)
}
`

const envExample = `# starknet-deploy environment

# RPC endpoints
STARKNET_SEPOLIA_RPC_URL=https://starknet-sepolia.public.blastapi.io

# Deployer account
DEPLOYER_PRIVATE_KEY=
DEPLOYER_ADDRESS=

# Log level (debug, info, warn, error)
STARKNET_DEPLOY_LOG_LEVEL=info
`
