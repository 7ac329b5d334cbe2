package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hapticlab/tacton/internal/playback"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	sourceFlags
	Port string
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <pattern-file>",
		Short: "Compile and play a pattern on the actuator array",
		Long: `Compile a pattern definition file and play it on the physical
actuator array over a serial port. Ctrl-C stops playback and releases all
actuators.

Example:
  tacton play sweep.yaml --port /dev/ttyUSB0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0])
		},
	}

	registerSourceFlags(cmd, &opts.sourceFlags)
	cmd.Flags().StringVar(&opts.Port, "port", "", "serial port of the actuator controller (required)")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

func runPlay(opts *PlayOptions, path string) error {
	c, err := compilePattern(path, opts.sourceFlags)
	if err != nil {
		return err
	}

	slog.Info("opening actuator controller", "port", opts.Port)
	sink, err := playback.OpenSerial(opts.Port, c.Layout.IDs(),
		playback.WithStateCallback(func(s playback.ConnState) {
			slog.Info("device connection state", "state", s.String())
		}))
	if err != nil {
		return WrapExitError(ExitCommandError, "opening serial port", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			slog.Error("error closing serial port", "error", closeErr)
		}
	}()

	eng := playback.NewEngine(sink, playback.WithLogger(slog.Default()))
	sess, err := eng.Play(c.Result.Events)
	if err != nil {
		return WrapExitError(ExitCommandError, "starting playback session", err)
	}

	// Ctrl-C stops the session; the run loop releases all actuators on
	// the way out.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, stopping playback", "signal", sig)
			sess.Stop()
		case <-sess.Done():
		}
	}()

	if err := sess.Wait(); err != nil {
		return WrapExitError(ExitFailure, "playback session faulted", err)
	}

	slog.Info("playback finished", "session_id", sess.ID(), "status", sess.Status().String())
	return nil
}
