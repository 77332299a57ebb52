package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/querylab/qbridge/internal/resource"
)

// TablesOptions holds flags for the tables command group.
type TablesOptions struct {
	*RootOptions
	CatalogPath string
}

// NewTablesCommand creates the tables command group for managing the
// binding catalog.
func NewTablesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TablesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Manage the table binding catalog",
	}

	cmd.PersistentFlags().StringVar(&opts.CatalogPath, "catalog", "qbridge.db", "catalog database path")

	cmd.AddCommand(newTablesListCommand(opts))
	cmd.AddCommand(newTablesAddCommand(opts))
	cmd.AddCommand(newTablesRemoveCommand(opts))

	return cmd
}

func newTablesListCommand(opts *TablesOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List cataloged table bindings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			catalog, err := resource.OpenCatalog(opts.CatalogPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening catalog", err)
			}
			defer catalog.Close()

			bindings, err := catalog.List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "listing bindings", err)
			}

			if formatter.Format == "json" {
				return formatter.Success(bindings)
			}
			if len(bindings) == 0 {
				fmt.Fprintln(formatter.Writer, "no bindings cataloged")
				return nil
			}
			for _, b := range bindings {
				layout := "plain"
				if b.Partitioned {
					layout = "partitioned"
				} else if b.Splayed {
					layout = "splayed"
				}
				fmt.Fprintf(formatter.Writer, "%s\t%s\t%s\n", b.Table, b.URI, layout)
			}
			return nil
		},
	}
}

func newTablesAddCommand(opts *TablesOptions) *cobra.Command {
	var partitioned, splayed bool

	cmd := &cobra.Command{
		Use:           "add <uri>",
		Short:         "Catalog a table binding by kdb:// URI",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			binding, err := resource.ParseURI(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing uri", err)
			}
			binding.Partitioned = partitioned
			binding.Splayed = splayed

			catalog, err := resource.OpenCatalog(opts.CatalogPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening catalog", err)
			}
			defer catalog.Close()

			if err := catalog.Put(cmd.Context(), binding); err != nil {
				return WrapExitError(ExitCommandError, "storing binding", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cataloged %s -> %s\n", binding.Table, binding.URI)
			return nil
		},
	}

	cmd.Flags().BoolVar(&partitioned, "partitioned", false, "table is partitioned on disk")
	cmd.Flags().BoolVar(&splayed, "splayed", false, "table is splayed on disk")

	return cmd
}

func newTablesRemoveCommand(opts *TablesOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <name>",
		Short:         "Remove a cataloged table binding",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := resource.OpenCatalog(opts.CatalogPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening catalog", err)
			}
			defer catalog.Close()

			if err := catalog.Remove(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitCommandError, "removing binding", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}
