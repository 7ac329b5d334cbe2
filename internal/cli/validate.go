package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hapticlab/tacton/internal/patterns"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pattern-file>",
		Short: "Validate a pattern file against the schema",
		Long: `Validate a pattern definition file without compiling it. All schema
violations are reported, with file positions where available.

Example:
  tacton validate sweep.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	_, errs := patterns.Load(path)
	if len(errs) == 0 {
		return formatter.Success(fmt.Sprintf("%s: valid", path))
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	formatter.Error("E_VALIDATE", fmt.Sprintf("%s: %d problem(s)", path, len(errs)), msgs)
	if rootOpts.Format == "text" {
		for _, m := range msgs {
			fmt.Fprintln(cmd.OutOrStdout(), " ", m)
		}
	}
	return NewExitError(ExitFailure, "validation failed")
}
