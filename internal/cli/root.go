// Package cli implements the irspec command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-irspec/internal/config"
	"github.com/cwbudde/algo-irspec/phonon"
)

// RootOptions holds global flags and state shared by all commands.
type RootOptions struct {
	Verbose    bool
	ConfigPath string

	Config *config.Config
	Logger *zap.Logger
}

// NewRootCommand creates the irspec root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "irspec",
		Short: "Simulate infrared spectra from phonon calculations",
		Long: `irspec computes infrared spectra from zone-centre phonon modes.

A calculation runs in three steps:
  disp      write structures displaced along each mode (optional, for
            finite-difference dipoles)
  read      collect Born effective charges from VASP OUTCAR files
  postproc  project the Born charges onto the modes and broaden the peaks`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if opts.Verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.Logger = logger

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading configuration", err)
			}
			opts.Config = cfg
			logger.Debug("configuration loaded", zap.String("path", opts.ConfigPath))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML run configuration")

	cmd.AddCommand(NewDispCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewPostProcCommand(opts))
	cmd.AddCommand(NewXYZ2POSCARCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// logWarnings reports recoverable per-mode conditions.
func (o *RootOptions) logWarnings(ws []phonon.Warning) {
	for _, w := range ws {
		o.Logger.Warn(w.Message,
			zap.Int("mode", w.Mode+1),
			zap.Float64("frequency", w.Frequency),
			zap.String("kind", w.Kind.Error()),
		)
	}
}
