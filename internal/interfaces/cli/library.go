package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appmol "github.com/turtacn/molgraph/internal/application/molecule"
	"github.com/turtacn/molgraph/internal/bootstrap"
	"github.com/turtacn/molgraph/internal/config"
	"github.com/turtacn/molgraph/internal/infrastructure/database/memory"
	"github.com/turtacn/molgraph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molgraph/pkg/errors"
)

// libraryOptions are shared by the library subcommands.
type libraryOptions struct {
	path string
}

func (o *libraryOptions) bootstrapOptions() []bootstrap.Option {
	if o.path == "" {
		return nil
	}
	return []bootstrap.Option{bootstrap.WithLibraryPath(o.path)}
}

// filePath is where a memory library is written back, empty when the
// library is not file backed.
func (o *libraryOptions) filePath(c *bootstrap.Container) string {
	if c.Memory == nil {
		return ""
	}
	if o.path != "" {
		return o.path
	}
	return c.Config.Library.Path
}

func newLibraryCmd() *cobra.Command {
	opts := &libraryOptions{}
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage the compound library used by knn",
	}
	cmd.PersistentFlags().StringVarP(&opts.path, "library", "l", "", "YAML library file (default: configured backend)")
	cmd.AddCommand(
		newLibraryListCmd(opts),
		newLibraryAddCmd(opts),
		newLibraryImportCmd(opts),
		newLibraryExportCmd(opts),
		newLibraryRemoveCmd(opts),
		newLibraryMigrateCmd(),
	)
	return cmd
}

func newLibraryListCmd(opts *libraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library compounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, err := bootstrap.New(ctx, cliCtx.Config, cliCtx.Logger, opts.bootstrapOptions()...)
			if err != nil {
				return err
			}
			defer container.Close()

			entries, err := container.Library.List(ctx)
			if err != nil {
				return err
			}
			view := make(compoundsView, 0, len(entries))
			for _, e := range entries {
				view = append(view, appmol.ToCompoundDTO(e))
			}
			return PrintResult(cmd, view)
		},
	}
}

func newLibraryAddCmd(opts *libraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <smiles>",
		Short: "Add a compound to the library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, svc, err := cliCtx.Open(ctx, opts.bootstrapOptions()...)
			if err != nil {
				return err
			}
			defer container.Close()

			dto, err := svc.Register(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if err := persistLibrary(ctx, container, opts.filePath(container)); err != nil {
				return err
			}
			return PrintResult(cmd, compoundsView{dto})
		},
	}
}

func newLibraryImportCmd(opts *libraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import every compound of a YAML library file",
		Long: "Import every compound of a YAML library file into the library. The\n" +
			"import is all-or-nothing: one invalid compound rejects the file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, err := bootstrap.New(ctx, cliCtx.Config, cliCtx.Logger, opts.bootstrapOptions()...)
			if err != nil {
				return err
			}
			defer container.Close()

			entries, err := memory.LoadLibraryFile(args[0], cliCtx.Config.Chemistry.FingerprintOptions())
			if err != nil {
				return err
			}
			if err := container.Library.SaveAll(ctx, entries); err != nil {
				return err
			}
			if err := persistLibrary(ctx, container, opts.filePath(container)); err != nil {
				return err
			}
			cliCtx.Logger.Info("library imported", logging.String("file", args[0]), logging.Int("compounds", len(entries)))
			PrintSuccess(cmd, fmt.Sprintf("imported %d compounds", len(entries)))
			return nil
		},
	}
}

func newLibraryExportCmd(opts *libraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the library as YAML to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, err := bootstrap.New(ctx, cliCtx.Config, cliCtx.Logger, opts.bootstrapOptions()...)
			if err != nil {
				return err
			}
			defer container.Close()

			entries, err := container.Library.List(ctx)
			if err != nil {
				return err
			}
			return memory.WriteLibrary(cmd.OutOrStdout(), entries, cliCtx.Config.Chemistry.FingerprintOptions())
		},
	}
}

func newLibraryRemoveCmd(opts *libraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a compound by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, err := bootstrap.New(ctx, cliCtx.Config, cliCtx.Logger, opts.bootstrapOptions()...)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := container.Library.Delete(ctx, args[0]); err != nil {
				return err
			}
			if err := persistLibrary(ctx, container, opts.filePath(container)); err != nil {
				return err
			}
			PrintSuccess(cmd, "removed "+args[0])
			return nil
		},
	}
}

func newLibraryMigrateCmd() *cobra.Command {
	var rollback int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the library schema migrations to PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := *cliCtx.Config
			cfg.Library.Backend = config.LibraryBackendPostgres
			cfg.Library.Watch = false
			if !cfg.Database.Enabled {
				return errors.InvalidParam("database.enabled must be set to migrate")
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()
			container, err := bootstrap.New(ctx, &cfg, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer container.Close()

			if rollback > 0 {
				err = container.DB.Rollback(rollback)
			} else {
				err = container.DB.Migrate()
			}
			if err != nil {
				return err
			}
			version, dirty, err := container.DB.MigrationVersion()
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("schema at version %d (dirty=%t)", version, dirty))
			return nil
		},
	}
	cmd.Flags().IntVar(&rollback, "rollback", 0, "roll back this many migrations instead of applying")
	return cmd
}

// persistLibrary writes a file-backed memory library back to disk through a
// temporary file so that a watching worker never sees a partial write.
func persistLibrary(ctx context.Context, c *bootstrap.Container, path string) error {
	if path == "" {
		return nil
	}
	entries, err := c.Library.List(ctx)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".library-*.yaml")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create temporary library file")
	}
	defer os.Remove(tmp.Name())

	if err := memory.WriteLibrary(tmp, entries, c.Config.Chemistry.FingerprintOptions()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write library file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to replace library file").WithDetail(path)
	}
	return nil
}

//Personal.AI order the ending
