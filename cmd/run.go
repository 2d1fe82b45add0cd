package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/engine"
	"github.com/LukeL99/modelblitz-app/internal/notify"
	"github.com/LukeL99/modelblitz-app/internal/provider"
	"github.com/LukeL99/modelblitz-app/internal/store"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <report-id>",
		Short: "Execute the benchmark for a paid report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID := args[0]
			cfg, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			apiKey := cfg.APIKey()
			if apiKey == "" {
				return fmt.Errorf("no API key in $%s", cfg.Provider.APIKeyEnv)
			}

			db, err := store.Open(store.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			var notifier notify.Notifier = notify.LogNotifier{}
			if cfg.Notify.WebhookURL != "" {
				notifier = notify.NewWebhook(cfg.Notify.WebhookURL)
			}

			eng := &engine.Engine{
				Store:    db,
				Catalog:  cat,
				Invoker:  provider.NewClient(cfg.Provider.BaseURL, apiKey),
				Notifier: notifier,
				Config:   cfg,
				Progress: newProgressFunc(),
			}
			if err := eng.Run(cmd.Context(), reportID); err != nil {
				return err
			}

			rep, err := db.GetReport(cmd.Context(), reportID)
			if err != nil {
				return err
			}
			fmt.Printf("\nReport %s: %s\n", rep.ID, rep.Status)
			if rep.RecommendedModel != nil {
				fmt.Printf("Recommended model: %s\n", *rep.RecommendedModel)
			}
			fmt.Printf("Total API cost: $%.4f\n", rep.TotalAPICost)
			return nil
		},
	}
}

// newProgressFunc lazily builds the progress bar once the plan size is known.
func newProgressFunc() func(done, total int) {
	var once sync.Once
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		once.Do(func() {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("benchmark runs"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
			)
		})
		bar.Set(done)
	}
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path != "" {
		return catalog.Load(cfg.Catalog.Path)
	}
	return catalog.Builtin(), nil
}
