package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	sourceFlags
	Output string
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <pattern-file>",
		Short: "Compile a pattern file to an actuator event stream",
		Long: `Compile a pattern definition file into its ordered actuator event
stream and print the events as JSON.

Example:
  tacton compile sweep.yaml
  tacton compile sweep.yaml -o events.json --intensity 0.6`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	registerSourceFlags(cmd, &opts.sourceFlags)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write events to file instead of stdout")

	return cmd
}

// registerSourceFlags adds the flags shared by compile, preview and play.
func registerSourceFlags(cmd *cobra.Command, flags *sourceFlags) {
	cmd.Flags().Float64Var(&flags.Intensity, "intensity", 0.8, "base intensity in [0,1]")
	cmd.Flags().IntVar(&flags.FreqCode, "freq", 4, "device frequency code (0..7)")
	cmd.Flags().StringVar(&flags.Database, "db", "", "pattern library database (for saved layouts)")
	cmd.Flags().StringVar(&flags.LayoutName, "layout", "", "saved layout name to compile against")
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	c, err := compilePattern(path, opts.sourceFlags)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(c.Result.Events, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "encoding events", err)
	}
	payload = append(payload, '\n')

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, payload, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	} else {
		cmd.OutOrStdout().Write(payload)
	}

	for _, conflict := range c.Result.Conflicts {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", conflict.String())
	}
	if c.Result.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: stroke truncated at the phantom budget")
	}
	if c.Result.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: phantom rendering degraded to nearest actuator")
	}
	return nil
}
