package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/starknet-deploy/internal/cli/render"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// NewComposeCmd creates the compose command
func NewComposeCmd() *cobra.Command {
	var (
		dryRun       bool
		resume       bool
		skipDeployed bool
	)

	cmd := &cobra.Command{
		Use:   "compose <compose-file>",
		Short: "Deploy a set of contracts from a YAML file",
		Long: `Deploy several contracts in dependency order based on a YAML file.

Constructor arguments can reference the address of an earlier deployment with
${Name}; the referenced deployment must be listed in deps.

Example compose file (protocol.yaml):
  group: Protocol
  network: sepolia
  deployments:
    Token:
      args: ["1000000"]
    Vault:
      args: ["${Token}"]
      deps:
        - Token
    Router:
      contract: SwapRouter
      args: ["${Vault}", "${Token}"]
      deps:
        - Vault
        - Token

This will execute: Token → Vault → Router`,
		Example: `  # Deploy everything in protocol.yaml
  starknet-deploy compose protocol.yaml

  # Only show the plan
  starknet-deploy compose protocol.yaml --dry-run

  # Continue after a failed step
  starknet-deploy compose protocol.yaml --resume`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ComposeDeployment.Execute(cmd.Context(), usecase.ComposeParams{
				ConfigPath:   args[0],
				DryRun:       dryRun,
				Resume:       resume,
				SkipDeployed: skipDeployed,
			})
			if err != nil {
				return err
			}
			if dryRun {
				return nil
			}

			if err := render.NewComposeRenderer(cmd.OutOrStdout()).RenderComposeResult(result); err != nil {
				return err
			}
			if !result.Success {
				if result.FailedStep != nil {
					return fmt.Errorf("compose failed at step %s: %w", result.FailedStep.Step.Name, result.FailedStep.Error)
				}
				return fmt.Errorf("compose failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the execution plan without deploying")
	cmd.Flags().BoolVar(&resume, "resume", false, "Resume a previously failed run")
	cmd.Flags().BoolVar(&skipDeployed, "skip-deployed", false, "Reuse addresses already recorded in the ledger")

	return cmd
}
