package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/starknet-deploy/internal/cli/render"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		constructorArgs []string
		build           bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [contract...]",
		Short: "Declare and deploy contracts",
		Long: `Declare the compiled class of each contract, deploy an instance through the
universal deployer and record its address in the ledger of the active network.

Without contract names an interactive terminal offers the compiled artifacts to choose from.`,
		Example: `  # Deploy Token with an initial supply
  starknet-deploy deploy Token --arg 1000000

  # Build first, then pick contracts interactively
  starknet-deploy deploy --build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if build {
				if err := app.Builder.Build(ctx); err != nil {
					return err
				}
			}

			names := args
			if len(names) == 0 {
				if app.Config.NonInteractive {
					return fmt.Errorf("contract name is required in non-interactive mode")
				}
				available, err := app.Artifacts.ListContracts(ctx)
				if err != nil {
					return err
				}
				names, err = SelectContracts(available, fmt.Sprintf("Select contracts to deploy on %s", app.Config.NetworkName()))
				if err != nil {
					return err
				}
			}

			var ctorArgs []any
			if cmd.Flags().Changed("arg") {
				if len(names) > 1 {
					return fmt.Errorf("--arg can only be used when deploying a single contract")
				}
				ctorArgs = toArgs(constructorArgs)
			}

			renderer := render.NewDeploymentRenderer(cmd.OutOrStdout())
			for _, name := range names {
				deployment, err := app.Manager.DeployContract(ctx, models.DeploymentConfig{
					ContractName:    name,
					ConstructorArgs: ctorArgs,
				})
				if err != nil {
					return err
				}
				if err := renderer.RenderDeployment(deployment); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&constructorArgs, "arg", nil, "Constructor argument, repeat in declaration order")
	cmd.Flags().BoolVar(&build, "build", false, "Run scarb build before deploying")

	return cmd
}

// toArgs passes CLI strings to the calldata encoder, which parses them per ABI type
func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
