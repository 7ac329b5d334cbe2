package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hapticlab/tacton/internal/playback"
	"github.com/hapticlab/tacton/internal/wave"
)

// PreviewOptions holds flags for the preview command.
type PreviewOptions struct {
	*RootOptions
	sourceFlags
}

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PreviewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preview <pattern-file>",
		Short: "Compile and play a pattern on the preview sink",
		Long: `Compile a pattern definition file and play it in real time against
the in-process preview sink. Each dispatched event is printed as it fires;
no hardware is touched.

Example:
  tacton preview sweep.yaml --intensity 0.6`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(opts, args[0], cmd)
		},
	}

	registerSourceFlags(cmd, &opts.sourceFlags)
	return cmd
}

func runPreview(opts *PreviewOptions, path string, cmd *cobra.Command) error {
	c, err := compilePattern(path, opts.sourceFlags)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bank := wave.Builtins()
	sink := playback.NewPreviewSink(playback.WithPreviewObserver(func(d playback.Dispatched) {
		line := fmt.Sprintf("%6dms  actuator %2d  intensity %.3f  freq %d",
			d.Event.StartMs, d.Event.ActuatorID, d.Event.Intensity, d.Event.FrequencyCode)
		if d.Event.Waveform != "" {
			// Midpoint amplitude of the waveform over this burst.
			if amp, err := bank.Sample(d.Event.Waveform, d.Event.DurationMs/2); err == nil {
				line += fmt.Sprintf("  %s(%.2f)", d.Event.Waveform, amp)
			}
		}
		fmt.Fprintln(out, line)
	}))

	eng := playback.NewEngine(sink, playback.WithLogger(slog.Default()))
	sess, err := eng.Play(c.Result.Events)
	if err != nil {
		return WrapExitError(ExitCommandError, "starting preview session", err)
	}

	if err := sess.Wait(); err != nil {
		return WrapExitError(ExitFailure, "preview session faulted", err)
	}

	fmt.Fprintf(out, "done: %d events, %d released\n", len(sink.Dispatches()), sink.Releases())
	return nil
}
