package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"catalog-sync/feature/catalog/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	syncOperator string
	syncToken    string
	dryRunCrawl  bool
	yesConfirm   bool
	runsType     string
	runsLimit    int
	failMessage  string
)

// syncCmd is the parent command for all pipeline stages.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run catalog sync stages",
	Long: `Run one stage of the catalog sync pipeline or inspect the run log.

Examples:
  # Crawl Dropbox and reconcile the file registry
  sync crawl --operator cron

  # Show what a crawl would change
  sync crawl --dry-run

  # Provision share links with an explicit token
  sync links --token $DROPBOX_TOKEN

  # Rebuild all SKU mappings
  sync purge-mappings --yes && sync mappings`,
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl remote roots and reconcile the file registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		res, err := a.service.Crawl(cmd.Context(), syncToken, syncOperator, dryRunCrawl)
		if err != nil {
			return err
		}
		a.logger.Info("Crawl finished",
			zap.Int("items_changed", res.ItemsChanged),
			zap.Int("inserted", res.Inserted),
			zap.Int("updated", res.Updated),
			zap.Int("changed", res.Changed),
			zap.Int("deleted", res.Deleted),
			zap.Bool("dry_run", res.DryRun))
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Provision missing share links",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		res, err := a.service.ProvisionLinks(cmd.Context(), syncToken, syncOperator)
		if err != nil {
			return err
		}
		a.logger.Info("Link provisioning finished",
			zap.Int("links_created", res.LinksCreated),
			zap.Int("links_failed", res.Failed),
			zap.Int64("orphans_deleted", res.OrphansDeleted))
		return nil
	},
}

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Generate SKU image mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		res, err := a.service.GenerateMappings(cmd.Context(), syncOperator)
		if err != nil {
			return err
		}
		a.logger.Info("Mapping generation finished",
			zap.Int64("mappings_created", res.MappingsCreated),
			zap.Int64("orphans_deleted", res.OrphansDeleted),
			zap.Int("primaries_promoted", res.PrimariesPromoted))
		return nil
	},
}

var purgeMappingsCmd = &cobra.Command{
	Use:   "purge-mappings",
	Short: "Delete every SKU image mapping",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		if !confirmDestructiveAction() {
			a.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		deleted, err := a.service.DeleteMappings(cmd.Context(), syncOperator)
		if err != nil {
			return err
		}
		a.logger.Info("Mappings deleted", zap.Int64("mappings_deleted", deleted))
		return nil
	},
}

var missingLinksCmd = &cobra.Command{
	Use:   "missing-links",
	Short: "Count web images without a share link",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		missing, err := a.service.MissingLinks(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(missing)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:       "status <sync-type>",
	Short:     "Show the latest run of a sync type",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(models.SyncCrawl), string(models.SyncLinks), string(models.SyncMapping), string(models.SyncAccess)},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		status, err := a.service.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fields := []zap.Field{zap.String("sync_type", args[0]), zap.Bool("is_running", status.IsRunning)}
		if status.RunID != nil {
			fields = append(fields,
				zap.Uint("run_id", *status.RunID),
				zap.Time("started_at", *status.StartedAt),
				zap.String("operator", *status.Operator))
		}
		a.logger.Info("Sync status", fields...)
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		runs, err := a.service.Runs(cmd.Context(), runsType, runsLimit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fields := []zap.Field{
				zap.Uint("id", r.ID),
				zap.String("sync_type", string(r.SyncType)),
				zap.String("status", string(r.Status)),
				zap.String("operator", r.Operator),
				zap.Time("started_at", r.StartedAt),
				zap.Int("items_synced", r.ItemsSynced),
			}
			if r.DurationSeconds != nil {
				fields = append(fields, zap.Float64("duration_seconds", *r.DurationSeconds))
			}
			if r.ErrorMessage != nil {
				fields = append(fields, zap.String("error", *r.ErrorMessage))
			}
			a.logger.Info("Run", fields...)
		}
		return nil
	},
}

var failCmd = &cobra.Command{
	Use:   "fail <run-id>",
	Short: "Force a stuck run to failed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q", args[0])
		}
		a, err := bootstrap()
		if err != nil {
			return err
		}
		if err := a.service.ForceFail(cmd.Context(), uint(id), failMessage); err != nil {
			return err
		}
		a.logger.Info("Run marked failed", zap.Uint64("run_id", id))
		return nil
	},
}

func init() {
	syncCmd.PersistentFlags().StringVar(&syncOperator, "operator", "cli", "Operator recorded on the run")
	crawlCmd.Flags().StringVar(&syncToken, "token", "", "Dropbox access token (defaults to STORAGE_DROPBOX_TOKEN)")
	crawlCmd.Flags().BoolVar(&dryRunCrawl, "dry-run", false, "Compute the diff without writing")
	linksCmd.Flags().StringVar(&syncToken, "token", "", "Dropbox access token (defaults to STORAGE_DROPBOX_TOKEN)")
	purgeMappingsCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the deletion (non-interactive)")
	runsCmd.Flags().StringVar(&runsType, "type", "", "Only list runs of this sync type")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs listed")
	failCmd.Flags().StringVar(&failMessage, "message", "marked failed by operator", "Error message stored on the run")

	syncCmd.AddCommand(crawlCmd, linksCmd, mappingsCmd, purgeMappingsCmd, missingLinksCmd, statusCmd, runsCmd, failCmd)
	RootCmd.AddCommand(syncCmd)
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
