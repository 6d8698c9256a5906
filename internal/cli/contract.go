package cli

import (
	"github.com/spf13/cobra"

	"github.com/trebuchet-org/starknet-deploy/internal/cli/render"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <contract|address> <function> [args...]",
		Short: "Call a view function",
		Long: `Call a read-only function of a contract. The contract is either a name recorded in
the ledger of the active network or a 0x-prefixed address.`,
		Example: `  starknet-deploy call Token balance_of 0x04a3...`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Manager.QueryContract(cmd.Context(), models.ParseContractRef(args[0]), args[1], toArgs(args[2:]))
			if err != nil {
				return err
			}

			return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderCallResult(args[0], args[1], result)
		},
	}

	return cmd
}

// NewInvokeCmd creates the invoke command
func NewInvokeCmd() *cobra.Command {
	var buffer int

	cmd := &cobra.Command{
		Use:   "invoke <contract|address> <function> [args...]",
		Short: "Invoke an external function",
		Long: `Send a transaction calling an external function and wait until it is final.
The max fee is the estimated fee plus --buffer percent.`,
		Example: `  starknet-deploy invoke Token transfer 0x04a3... 100 --buffer 30`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			txHash, err := app.Manager.InvokeContract(cmd.Context(), models.ParseContractRef(args[0]), args[1], toArgs(args[2:]),
				usecase.WithFeeBuffer(buffer))
			if err != nil {
				return err
			}

			return render.NewDeploymentRenderer(cmd.OutOrStdout()).RenderInvokeResult(args[0], args[1], txHash)
		},
	}

	cmd.Flags().IntVar(&buffer, "buffer", usecase.DefaultFeeBuffer, "Percentage added to the estimated fee")

	return cmd
}
