package cli

import (
	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <reaction-smiles>",
		Short: "Check atom conservation across a reaction",
		Long: "Parse a reaction written as reactants>agents>products and compare the\n" +
			"element totals of both sides, hydrogens included. Exits with status 1\n" +
			"when the reaction is unbalanced.",
		Example: "  molgraph balance 'CC=C.[H][H]>>CCC'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, svc, err := cliCtx.Open(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			report, err := svc.CheckBalance(ctx, args[0])
			if err != nil {
				return err
			}
			if err := PrintResult(cmd, balanceView{report}); err != nil {
				return err
			}
			if !report.Balanced {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

//Personal.AI order the ending
