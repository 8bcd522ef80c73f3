package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/molgraph/internal/bootstrap"
	moltypes "github.com/turtacn/molgraph/pkg/types/molecule"
)

func newSimilarityCmd() *cobra.Command {
	var metric string
	cmd := &cobra.Command{
		Use:   "similarity <smiles-a> <smiles-b>",
		Short: "Compare two molecules by fingerprint similarity",
		Args:  cobra.ExactArgs(2),
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

			dto, err := svc.Compare(ctx, args[0], args[1], metric)
			if err != nil {
				return err
			}
			return PrintResult(cmd, similarityView{dto})
		},
	}
	cmd.Flags().StringVarP(&metric, "metric", "m", "", "similarity metric (tanimoto, cosine); default from config")
	return cmd
}

func newKNNCmd() *cobra.Command {
	var (
		library  string
		k        int
		minScore float64
	)
	cmd := &cobra.Command{
		Use:   "knn <smiles>",
		Short: "Find the k most similar compounds in a library",
		Long: "Rank every compound in the library by Tanimoto similarity to the query\n" +
			"and print the k best. --library reads a YAML library file; without it the\n" +
			"configured library backend is searched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			var opts []bootstrap.Option
			if library != "" {
				opts = append(opts, bootstrap.WithLibraryPath(library))
			}
			container, svc, err := cliCtx.Open(ctx, opts...)
			if err != nil {
				return err
			}
			defer container.Close()

			hits, err := svc.SearchSimilar(ctx, moltypes.SimilaritySearchRequest{
				SMILES:        args[0],
				K:             k,
				MinSimilarity: minScore,
			})
			if err != nil {
				return err
			}
			return PrintResult(cmd, neighborsView(hits))
		},
	}
	cmd.Flags().StringVarP(&library, "library", "l", "", "YAML library file")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "number of neighbors")
	cmd.Flags().Float64Var(&minScore, "min-similarity", 0, "drop hits scoring below this value")
	return cmd
}

//Personal.AI order the ending
