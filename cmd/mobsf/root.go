package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rsclarke/mobsf/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "mobsf"

// version is set at build time via -ldflags.
var version = "dev"

var logger *zap.Logger

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Command-line client for the MobSF scanning service",
	Long: `mobsf uploads mobile application packages to a MobSF server, starts
scans, lists past scans, downloads reports, browses decompiled source and
runs a CI quality gate against the scan results.

The server and API key are read from --server/--api-key, then the
MOBSF_HOST/MOBSF_API_KEY environment variables, then a .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.FromEnv())
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l.With(logging.InvocationID(uuid.NewString()), logging.Component(cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logging.Sync(logger)
		}
	},
}

var errMark = color.New(color.FgRed, color.Bold)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		errMark.Fprintf(os.Stderr, "✖ %v\n", err)
		if logger != nil {
			logging.Sync(logger)
		}
		os.Exit(1)
	}
}

func getLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
