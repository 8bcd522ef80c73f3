package cli

import (
	"github.com/spf13/cobra"

	domainMol "github.com/turtacn/molgraph/internal/domain/molecule"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <smiles>...",
		Short: "Check SMILES strings for balanced brackets and paired ring labels",
		Long: "Check each SMILES string for balanced parentheses and brackets and for\n" +
			"paired ring-closure labels. Exits with status 1 when any input is invalid.",
		Args: cobra.MinimumNArgs(1),
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

			view := make(validationView, 0, len(args))
			allValid := true
			for _, s := range args {
				r := svc.Validate(ctx, s)
				allValid = allValid && r.Valid
				view = append(view, r)
			}
			if err := PrintResult(cmd, view); err != nil {
				return err
			}
			if !allValid {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <smiles>",
		Short: "Parse a SMILES string and list its atoms and bonds",
		Args:  cobra.ExactArgs(1),
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

			dto, err := svc.Parse(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, moleculeView{dto})
		},
	}
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "describe <smiles>...",
		Aliases: []string{"descriptors"},
		Short:   "Compute molecular descriptors",
		Long: "Compute formula, weight, bond and ring counts, hydrogen-bond donors and\n" +
			"acceptors, rotatable bonds, TPSA and logP. Several inputs are analyzed\n" +
			"concurrently and summarized.",
		Args: cobra.MinimumNArgs(1),
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

			if len(args) == 1 {
				dto, err := svc.Analyze(ctx, args[0])
				if err != nil {
					return err
				}
				return PrintResult(cmd, analysisView{dto})
			}
			res, err := svc.AnalyzeBatch(ctx, args)
			if err != nil {
				return err
			}
			if err := PrintResult(cmd, batchView{res}); err != nil {
				return err
			}
			if res.Summary.Failed > 0 {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

func newFormulaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formula <smiles>",
		Short: "Print the Hill formula and molecular weight",
		Args:  cobra.ExactArgs(1),
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

			dto, err := svc.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, formulaView{
				SMILES:          dto.SMILES,
				Formula:         dto.Descriptors.Formula,
				MolecularWeight: dto.Descriptors.MolecularWeight,
			})
		},
	}
}

func newFingerprintCmd() *cobra.Command {
	var radius, bits int
	cmd := &cobra.Command{
		Use:   "fingerprint <smiles>",
		Short: "Compute a circular (Morgan-style) fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			opts := cliCtx.Config.Chemistry.FingerprintOptions()
			if cmd.Flags().Changed("radius") {
				opts.Radius = radius
			}
			if cmd.Flags().Changed("bits") {
				opts.Bits = bits
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, svc, err := cliCtx.Open(ctx)
			if err != nil {
				return err
			}
			defer container.Close()

			dto, err := svc.Fingerprint(ctx, args[0], opts)
			if err != nil {
				return err
			}
			return PrintResult(cmd, fingerprintView{SMILES: args[0], FingerprintDTO: dto})
		},
	}
	cmd.Flags().IntVar(&radius, "radius", domainMol.DefaultFingerprintRadius, "neighborhood radius")
	cmd.Flags().IntVar(&bits, "bits", domainMol.DefaultFingerprintBits, "fingerprint length in bits")
	return cmd
}

func newDrugLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "druglike <smiles>",
		Short: "Evaluate Lipinski and Veber drug-likeness rules",
		Args:  cobra.ExactArgs(1),
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

			dto, err := svc.Analyze(ctx, args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, drugLikeView{
				SMILES:       dto.SMILES,
				Descriptors:  dto.Descriptors,
				DrugLikeness: dto.DrugLikeness,
			})
		},
	}
}

// containsView is the result of a fragment check.
type containsView struct {
	SMILES   string `json:"smiles"`
	Fragment string `json:"fragment"`
	Contains bool   `json:"contains"`
}

func (v containsView) String() string {
	if v.Contains {
		return "yes"
	}
	return "no"
}

func newContainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contains <smiles> <fragment>",
		Short: "Check whether a SMILES string contains a fragment as text",
		Long: "Check whether fragment occurs in smiles after both are normalized by\n" +
			"dropping whitespace, stereo markers and ring-closure digits. This is a\n" +
			"text match, not a graph match: it misses fragments written in another\n" +
			"order and can match across unrelated atoms.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := containsView{SMILES: args[0], Fragment: args[1]}
			v.Contains = domainMol.ContainsFragment(args[0], args[1])
			if err := PrintResult(cmd, v); err != nil {
				return err
			}
			if !v.Contains {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

//Personal.AI order the ending
