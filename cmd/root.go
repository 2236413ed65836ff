package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the catalog-sync entry point.
var RootCmd = &cobra.Command{
	Use:   "catalog-sync",
	Short: "Dropbox catalog sync and SKU image matching",
	Long: `catalog-sync mirrors the product image tree from Dropbox into a file
registry, provisions public share links for web images and maps inventory
SKUs to the files that show them.

Run "catalog-sync start" for the HTTP API or "catalog-sync sync" for the
individual pipeline stages.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree. An interrupt cancels the command's context
// so in-flight runs are recorded as failed instead of left running.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := RootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	l, logErr := logger.New(&logger.Config{Level: "debug", Format: logger.FormatConsole})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("command failed", zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}
