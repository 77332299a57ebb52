package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/querylab/qbridge/internal/q"
	"github.com/querylab/qbridge/internal/queryfile"
	"github.com/querylab/qbridge/internal/translate"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Output string // output file path
}

// TranslationResult is the JSON payload for a successful translation.
type TranslationResult struct {
	Table string `json:"table"`
	Query string `json:"query"`
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate <query.cue>",
		Short: "Translate a query document to q",
		Long: `Translate a CUE query document into a q expression.

The document declares a table binding and a pipeline of operations;
the rendered q text is printed (or written with --output) without
contacting any remote process.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runTranslate(opts *TranslateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := queryfile.LoadFile(path)
	if err != nil {
		var compileErr *queryfile.CompileError
		if errors.As(err, &compileErr) {
			_ = formatter.Error("COMPILE", compileErr.Error(), nil)
			return WrapExitError(ExitCommandError, "loading query document", err)
		}
		_ = formatter.Error("LOAD", err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading query document", err)
	}
	formatter.VerboseLog("Loaded query document for table %s (%d operation(s))",
		doc.Table.Name, len(doc.Pipeline))

	root, leaf, err := queryfile.Build(doc)
	if err != nil {
		_ = formatter.Error("COMPILE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "building expression", err)
	}

	sym := q.NewTableSymbol(doc.Table.Name, leaf.DShape.FieldNames(), doc.Table.Partitioned, doc.Table.Splayed)
	frag, err := translate.New().Bind(leaf, sym).Translate(root)
	if err != nil {
		var terr *translate.Error
		if errors.As(err, &terr) {
			_ = formatter.Error(string(terr.Code), terr.Message, nil)
			return WrapExitError(ExitFailure, "translation failed", err)
		}
		_ = formatter.Error("TRANSLATE", err.Error(), nil)
		return WrapExitError(ExitFailure, "translation failed", err)
	}

	text := frag.String()
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text+"\n"), 0644); err != nil {
			_ = formatter.Error("WRITE", err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
		formatter.VerboseLog("Wrote q text to %s", opts.Output)
	}

	if formatter.Format == "json" {
		return formatter.Success(TranslationResult{Table: doc.Table.Name, Query: text})
	}
	fmt.Fprintln(formatter.Writer, text)
	return nil
}
