package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"

	"github.com/maloquacious/wastewater/internal/config"
	"github.com/maloquacious/wastewater/internal/feed"
	"github.com/maloquacious/wastewater/internal/logger"
	"github.com/maloquacious/wastewater/internal/models"
	"github.com/maloquacious/wastewater/internal/store"
	"github.com/maloquacious/wastewater/internal/store/sqlite"
)

var (
	version = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
)

var (
	dbPath  string
	feedURL string
	dryRun  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wastewater",
		Short: "Washington DOH wastewater surveillance collector",
	}

	// Global flags; empty values fall back to env/.env configuration.
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (default from SQLITE_DB_PATH)")

	// poll command
	pollCmd := &cobra.Command{
		Use:   "poll",
		Short: "Fetch the wastewater feed and store new samples",
		RunE:  runPoll,
	}
	pollCmd.Flags().StringVar(&feedURL, "url", "", "feed URL (default from URL_WAGOV_WASTEWATER)")
	pollCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse the feed but do not write to the store")

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the samples table and indexes if absent",
		RunE:  runDBInit,
	}
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the samples table and indexes are present",
		RunE:  runDBVerify,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the collector version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}

	dbCmd.AddCommand(dbInitCmd, dbVerifyCmd)
	rootCmd.AddCommand(pollCmd, dbCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges env configuration with command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if feedURL != "" {
		cfg.FeedURL = feedURL
	}
	if dryRun {
		cfg.DryRun = true
	}
	return cfg, nil
}

// runPoll fetches the feed once, stamps rows with the poll time and upserts
// them by primary key. Revised rows are updated in place.
func runPoll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewStdLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+10*time.Second)
	defer cancel()

	client := &http.Client{Timeout: cfg.RequestTimeout}
	polledAt := time.Now().UTC()

	log.Debug("requesting wastewater data from %s", cfg.FeedURL)
	records, skipped, err := feed.FetchRecords(ctx, client, cfg.FeedURL)
	if err != nil {
		return err
	}
	if skipped > 0 {
		log.Warn("skipped %d malformed feed rows", skipped)
	}
	log.Info("fetched %d samples from feed", len(records))

	samples := models.BuildSamples(records, polledAt)

	if cfg.DryRun {
		log.Info("dry-run: skipping upsert of %d samples into %s", len(samples), cfg.DBPath)
		return nil
	}

	st := sqlite.New(cfg.DBPath)
	if err := st.Open(); err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(ctx); err != nil {
		return err
	}

	written, err := st.UpsertSamples(ctx, samples)
	if err != nil {
		return err
	}

	total, err := st.CountSamples(ctx)
	if err != nil {
		return err
	}

	log.Info("wrote %d samples (%d total in store)", written, total)
	return nil
}

// runDBInit idempotently ensures the schema exists.
func runDBInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewStdLogger(cfg.Debug)

	st := sqlite.New(cfg.DBPath)
	if err := st.Open(); err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(context.Background()); err != nil {
		return err
	}

	log.Info("schema ready at %s", cfg.DBPath)
	return nil
}

// runDBVerify reports the store state without modifying it.
func runDBVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewStdLogger(cfg.Debug)

	exists, err := store.CheckExists(cfg.DBPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no datastore at %s", cfg.DBPath)
	}

	st := sqlite.New(cfg.DBPath)
	if err := st.Open(); err != nil {
		return err
	}
	defer st.Close()

	state, err := st.Verify(context.Background())
	if err != nil {
		return err
	}

	switch state {
	case store.StateReady:
		log.Info("datastore at %s is ready", cfg.DBPath)
		return nil
	case store.StatePartial:
		return fmt.Errorf("datastore at %s is missing one or both indexes; run db init", cfg.DBPath)
	default:
		return fmt.Errorf("datastore at %s is not initialized; run db init", cfg.DBPath)
	}
}
