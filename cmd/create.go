package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/store"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <definition.yaml>",
		Short: "Create a report from a benchmark definition",
		Long:  "Insert a new report in paid status from a benchmark definition file. The report id it prints is what `modelblitz run` executes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			reportCfg, err := loadDefinition(args[0])
			if err != nil {
				return err
			}
			db, err := store.Open(store.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
			if err != nil {
				return err
			}

			rep := &store.Report{
				ID:         uuid.New().String(),
				Status:     store.ReportStatusPaid,
				ShareToken: uuid.New().String(),
				Config:     *reportCfg,
				CreatedAt:  time.Now().UTC(),
			}
			if err := db.CreateReport(cmd.Context(), rep); err != nil {
				return err
			}
			fmt.Printf("Created report %s (%d models, %d images, %d runs per model)\n",
				rep.ID, len(reportCfg.Models), len(reportCfg.Images), reportCfg.RunsPerModel)
			return nil
		},
	}
}
