package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

func newInitConfig() *config.RuntimeConfig {
	root := filepath.FromSlash("/proj")
	return &config.RuntimeConfig{
		ProjectRoot: root,
		ConfigPath:  filepath.Join(root, "starknet-deploy.toml"),
		DeployConfig: &config.DeployConfig{
			DefaultNetwork: "sepolia",
			Paths:          config.PathsConfig{PackageName: "my_project", Scripts: "src/scripts"},
		},
	}
}

func TestInitProject(t *testing.T) {
	ctx := context.Background()

	t.Run("scaffolds a fresh project", func(t *testing.T) {
		cfg := newInitConfig()
		files := newMemoryFiles()
		writer := &MockConfigWriter{}
		writer.On("WriteDefault", mock.Anything, cfg.ConfigPath).Return(nil).Once()
		ledger := newMemoryLedger()
		sink := &recordingSink{}

		result, err := usecase.NewInitProject(cfg, files, writer, ledger, sink).Execute(ctx)
		require.NoError(t, err)

		assert.Equal(t, "my_project", result.PackageName)
		assert.True(t, result.ConfigCreated)
		assert.True(t, result.LedgerCreated)
		assert.False(t, result.AlreadyInitialized)
		assert.Len(t, result.Steps, 7)
		for _, step := range result.Steps {
			assert.True(t, step.Success, step.Name)
			assert.False(t, step.Skipped, step.Name)
		}

		scripts := cfg.ScriptsDir()
		assert.True(t, files.dirs[filepath.Join(scripts, "deployments")])
		assert.True(t, files.dirs[filepath.Join(scripts, "tasks")])
		assert.Contains(t, files.files[filepath.Join(scripts, "deployments", "example_deployment", "main.go")], "starkdeploy.InitializeContractManager")
		assert.Contains(t, files.files[filepath.Join(scripts, "tasks", "example_task", "main.go")], "QueryContract")
		assert.Equal(t, "{}\n", files.files[ledger.GetPath("sepolia")])
		assert.Contains(t, files.files[filepath.Join(cfg.ProjectRoot, ".env.example")], "DEPLOYER_PRIVATE_KEY=")

		require.NotEmpty(t, sink.events)
		assert.Contains(t, sink.events[0].Message, "my_project")
		writer.AssertExpectations(t)
	})

	t.Run("never overwrites existing files", func(t *testing.T) {
		cfg := newInitConfig()
		files := newMemoryFiles()
		writer := &MockConfigWriter{}
		writer.On("WriteDefault", mock.Anything, cfg.ConfigPath).
			Run(func(args mock.Arguments) {
				_ = files.WriteFile(ctx, args.String(1), "default_network = \"sepolia\"\n")
			}).
			Return(nil).Once()
		ledger := newMemoryLedger()
		uc := usecase.NewInitProject(cfg, files, writer, ledger, &recordingSink{})

		_, err := uc.Execute(ctx)
		require.NoError(t, err)
		files.files[ledger.GetPath("sepolia")] = `{"Token": "0x1"}`

		result, err := uc.Execute(ctx)
		require.NoError(t, err)
		assert.True(t, result.AlreadyInitialized)
		assert.False(t, result.ConfigCreated)
		assert.False(t, result.LedgerCreated)
		assert.Equal(t, `{"Token": "0x1"}`, files.files[ledger.GetPath("sepolia")])
		writer.AssertNumberOfCalls(t, "WriteDefault", 1)
	})

	t.Run("stops at the first failing step", func(t *testing.T) {
		cfg := newInitConfig()
		files := newMemoryFiles()
		writer := &MockConfigWriter{}
		writer.On("WriteDefault", mock.Anything, cfg.ConfigPath).Return(errors.New("read-only file system"))

		result, err := usecase.NewInitProject(cfg, files, writer, newMemoryLedger(), &recordingSink{}).Execute(ctx)
		require.Error(t, err)
		require.Len(t, result.Steps, 1)
		assert.False(t, result.Steps[0].Success)
		assert.Empty(t, files.paths(""))
	})
}
