package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hapticlab/tacton/internal/patterns"
	"github.com/hapticlab/tacton/internal/store"
)

// PatternsOptions holds flags for the patterns subcommands.
type PatternsOptions struct {
	*RootOptions
	Database string
	Kind     string
	Name     string
}

// NewPatternsCommand creates the patterns command group.
func NewPatternsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatternsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage the pattern library",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "pattern library database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newPatternsListCommand(opts))
	cmd.AddCommand(newPatternsSaveCommand(opts))
	cmd.AddCommand(newPatternsShowCommand(opts))
	cmd.AddCommand(newPatternsDeleteCommand(opts))

	return cmd
}

func openLibrary(opts *PatternsOptions) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open pattern library", err)
	}
	return st, nil
}

func newPatternsListCommand(opts *PatternsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved patterns",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openLibrary(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			recs, err := st.ListPatterns(cmd.Context(), store.Filter{
				Kind:         opts.Kind,
				NameContains: opts.Name,
			})
			if err != nil {
				return WrapExitError(ExitCommandError, "listing patterns", err)
			}

			if opts.Format == "json" {
				type row struct {
					Name        string `json:"name"`
					DisplayName string `json:"display_name"`
					Kind        string `json:"kind"`
				}
				rows := make([]row, 0, len(recs))
				for _, r := range recs {
					rows = append(rows, row{Name: r.Name, DisplayName: r.DisplayName, Kind: r.Kind})
				}
				f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return f.Success(rows)
			}

			for _, r := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", r.Kind, r.DisplayName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter by pattern kind (stroke|clips|premade)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by name substring")
	return cmd
}

func newPatternsSaveCommand(opts *PatternsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "save <name> <pattern-file>",
		Short:         "Save a pattern file into the library",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			data, err := os.ReadFile(path)
			if err != nil {
				return WrapExitError(ExitCommandError, "reading pattern file", err)
			}

			// Only schema-valid documents enter the library.
			doc, errs := patterns.Parse(path, data)
			if len(errs) > 0 {
				return WrapExitError(ExitFailure, fmt.Sprintf("pattern file %s is invalid", path), joinErrors(errs))
			}

			st, err := openLibrary(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SavePattern(cmd.Context(), name, doc.Pattern.Type, data); err != nil {
				return WrapExitError(ExitCommandError, "saving pattern", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %q (%s)\n", name, doc.Pattern.Type)
			return nil
		},
	}
}

func newPatternsShowCommand(opts *PatternsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Print a saved pattern's definition",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openLibrary(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.GetPattern(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "loading pattern", err)
			}
			cmd.OutOrStdout().Write(rec.Definition)
			return nil
		},
	}
}

func newPatternsDeleteCommand(opts *PatternsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Remove a pattern from the library",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openLibrary(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.DeletePattern(cmd.Context(), args[0]); err != nil {
				return WrapExitError(ExitCommandError, "deleting pattern", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
			return nil
		},
	}
}
