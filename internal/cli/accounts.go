package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trebuchet-org/starknet-deploy/internal/cli/render"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// NewAccountsCmd creates the accounts command and its subcommands
func NewAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts of the network",
		Long: `List the signers configured for the active network. The active one is marked
with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageAccounts.List(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAccountsRenderer(cmd.OutOrStdout()).RenderAccounts(result)
		},
	}

	cmd.AddCommand(newAccountsUseCmd())
	return cmd
}

func newAccountsUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use [index]",
		Short: "Select the account used for signing",
		Long: `Verify that the account can be loaded and remember it, together with the
network, in .starknet-deploy/config.local.json. Without an index an
interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var params usecase.UseAccountParams
			if len(args) == 1 {
				index, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid account index %q", args[0])
				}
				params.Index = &index
			}

			result, err := app.ManageAccounts.Use(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewAccountsRenderer(cmd.OutOrStdout()).RenderAccountSelected(result)
		},
	}
}
