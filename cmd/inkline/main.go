package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])

	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("inkline command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var logLevel string
	root := &cobra.Command{
		Use:           "inkline",
		Short:         "Render inline markup as styled terminal text",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Root().PersistentFlags().Changed("log-level") {
				return nil
			}
			level, ok := parseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q (use debug, info, warn, or error)", logLevel)
			}
			logger := pslog.NewWithOptions(os.Stderr, pslog.Options{
				Mode:     pslog.ModeConsole,
				MinLevel: level,
			})
			cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")

	root.AddCommand(newRenderCmd(&cfgPath))
	root.AddCommand(newProvidersCmd(&cfgPath))
	root.AddCommand(newModelsCmd(&cfgPath))
	root.AddCommand(newKeysCmd(&cfgPath))
	root.AddCommand(newUpdateCmd(&cfgPath))
	root.AddCommand(newConfigCmd(&cfgPath))
	root.AddCommand(newVersionCmd())

	return root
}

func parseLogLevel(name string) (pslog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return pslog.DebugLevel, true
	case "info":
		return pslog.InfoLevel, true
	case "warn", "warning":
		return pslog.WarnLevel, true
	case "error":
		return pslog.ErrorLevel, true
	default:
		return pslog.InfoLevel, false
	}
}
