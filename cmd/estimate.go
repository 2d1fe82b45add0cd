package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/LukeL99/modelblitz-app/internal/catalog"
	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/costs"
)

func newEstimateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "estimate <definition.yaml>",
		Short: "Project cost and duration for a benchmark definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			def, err := loadDefinition(args[0])
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			var models []catalog.Model
			for _, id := range def.Models {
				m, ok := cat.Lookup(id)
				if !ok {
					log.Printf("WARNING: model %s is not in the catalog, excluding from estimate", id)
					continue
				}
				models = append(models, m)
			}
			if len(models) == 0 {
				return fmt.Errorf("no models from the definition are in the catalog")
			}

			est := costs.Estimator{
				BudgetUSD:   cfg.Budget.SoftCeilingUSD,
				Concurrency: cfg.Concurrency.Global,
			}
			e := est.Estimate(models, def.RunsPerModel, len(def.Images))

			fmt.Printf("Total runs:          %d\n", e.TotalRuns)
			fmt.Printf("Estimated cost:      $%.4f\n", e.EstimatedCost)
			fmt.Printf("Estimated time:      ~%d min\n", e.EstimatedTimeMinutes)
			fmt.Printf("Budget utilization:  %.1f%% of $%.2f\n", e.BudgetUtilization, cfg.Budget.SoftCeilingUSD)
			fmt.Printf("Confidence:          %s\n", e.Confidence)
			if e.Warning != "" {
				fmt.Printf("\nWARNING: %s\n", e.Warning)
				optimized := est.OptimizeRuns(models, len(def.Images))
				if optimized < 1 {
					fmt.Println("Even a single run per model per image exceeds the budget. Reduce the model selection.")
				} else {
					fmt.Printf("The run count will be reduced to %d per model to fit the budget.\n", optimized)
				}
			}
			return nil
		},
	}
}
