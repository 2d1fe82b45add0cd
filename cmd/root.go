package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "modelblitz",
		Short: "Benchmark vision models on structured JSON extraction tasks",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "modelblitz.yaml", "config file path")
	root.AddCommand(newRunCmd())
	root.AddCommand(newCreateCmd())
	root.AddCommand(newEstimateCmd())
	root.AddCommand(newModelsCmd())
	root.AddCommand(newReportCmd())
	return root
}
