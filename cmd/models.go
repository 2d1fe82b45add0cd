package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/costs"
)

func newModelsCmd() *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the benchmarkable model lineup",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIER\tIN $/1M\tOUT $/1M\t~$/CALL\tPDF")
			for _, m := range cat.Models() {
				if tier != "" && string(m.Tier) != tier {
					continue
				}
				pdf := ""
				if m.SupportsPDF {
					pdf = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.6f\t%s\n",
					m.ID, m.Name, m.Tier, m.InputCostPer1M, m.OutputCostPer1M, costs.UnitCost(m), pdf)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&tier, "tier", "", "only show models in this price tier (free, budget, mid, premium, ultra)")
	return cmd
}
