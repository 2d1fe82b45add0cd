package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LukeL99/modelblitz-app/internal/aggregate"
	"github.com/LukeL99/modelblitz-app/internal/config"
	"github.com/LukeL99/modelblitz-app/internal/store"
)

// maxPatternRows bounds the recurring-mistake listing in text formats.
const maxPatternRows = 10

func newReportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report <report-id>",
		Short: "Show the results of a benchmark report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(cfgFile)
			if err != nil {
				return err
			}
			db, err := store.Open(store.Options{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
			if err != nil {
				return err
			}
			return writeReport(cmd.Context(), db, args[0], format, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, markdown or json")
	return cmd
}

func writeReport(ctx context.Context, db store.Store, reportID, format string, w io.Writer) error {
	rep, err := db.GetReport(ctx, reportID)
	if err != nil {
		return err
	}
	runs, err := db.ListRuns(ctx, reportID)
	if err != nil {
		return err
	}
	aggs := aggregate.Compute(runs)
	patterns := aggregate.FieldErrorPatterns(runs)

	switch format {
	case "markdown":
		return writeMarkdown(rep, aggs, patterns, w)
	case "json":
		return writeJSON(rep, aggs, patterns, w)
	case "table":
		return writeTable(rep, aggs, patterns, w)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func recommendedMark(rep *store.Report, modelID string) string {
	if rep.RecommendedModel != nil && *rep.RecommendedModel == modelID {
		return " *"
	}
	return ""
}

func writeTable(rep *store.Report, aggs []aggregate.ModelAggregate, patterns []aggregate.FieldErrorPattern, w io.Writer) error {
	fmt.Fprintf(w, "Report %s (%s)\n", rep.ID, rep.Status)
	if rep.RecommendedModel != nil {
		fmt.Fprintf(w, "Recommended: %s\n", *rep.RecommendedModel)
	}
	fmt.Fprintf(w, "Total API cost: $%.4f\n\n", rep.TotalAPICost)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tACCURACY\tEXACT\tCOST/CALL\tMEDIAN MS\tP95 MS\tSPREAD\tDONE/FAIL/SKIP")
	fmt.Fprintln(tw, strings.Repeat("-", 80))
	for _, a := range aggs {
		fmt.Fprintf(tw, "%s%s\t%.2f%%\t%.0f%%\t$%.6f\t%d\t%d\t%.2f\t%d/%d/%d\n",
			a.ModelID, recommendedMark(rep, a.ModelID),
			a.Accuracy, a.ExactMatchRate, a.CostPerCall,
			a.MedianLatency, a.P95Latency, a.Spread,
			a.RunsCompleted, a.RunsFailed, a.RunsSkipped)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(patterns) > 0 {
		fmt.Fprintln(w, "\nRecurring extraction mistakes:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MODEL\tFIELD\tEXPECTED\tGOT\tCOUNT")
		for i, p := range patterns {
			if i == maxPatternRows {
				break
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ModelID, p.FieldPath, p.Expected, p.Actual, p.Occurrences)
		}
		return tw.Flush()
	}
	return nil
}

func writeMarkdown(rep *store.Report, aggs []aggregate.ModelAggregate, patterns []aggregate.FieldErrorPattern, w io.Writer) error {
	fmt.Fprintf(w, "# Report %s\n\n", rep.ID)
	fmt.Fprintf(w, "Status: %s  \n", rep.Status)
	if rep.RecommendedModel != nil {
		fmt.Fprintf(w, "Recommended: **%s**  \n", *rep.RecommendedModel)
	}
	fmt.Fprintf(w, "Total API cost: $%.4f\n\n", rep.TotalAPICost)

	fmt.Fprintln(w, "| Model | Accuracy | Exact | Cost/Call | Median ms | P95 ms | Spread | Done/Fail/Skip |")
	fmt.Fprintln(w, "|---|---|---|---|---|---|---|---|")
	for _, a := range aggs {
		fmt.Fprintf(w, "| %s%s | %.2f%% | %.0f%% | $%.6f | %d | %d | %.2f | %d/%d/%d |\n",
			a.ModelID, recommendedMark(rep, a.ModelID),
			a.Accuracy, a.ExactMatchRate, a.CostPerCall,
			a.MedianLatency, a.P95Latency, a.Spread,
			a.RunsCompleted, a.RunsFailed, a.RunsSkipped)
	}

	if len(patterns) > 0 {
		fmt.Fprint(w, "\n## Recurring extraction mistakes\n\n")
		fmt.Fprintln(w, "| Model | Field | Expected | Got | Count |")
		fmt.Fprintln(w, "|---|---|---|---|---|")
		for i, p := range patterns {
			if i == maxPatternRows {
				break
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %d |\n", p.ModelID, p.FieldPath, p.Expected, p.Actual, p.Occurrences)
		}
	}
	return nil
}

func writeJSON(rep *store.Report, aggs []aggregate.ModelAggregate, patterns []aggregate.FieldErrorPattern, w io.Writer) error {
	out := struct {
		Report            *store.Report                 `json:"report"`
		Aggregates        []aggregate.ModelAggregate    `json:"aggregates"`
		FieldErrorPattern []aggregate.FieldErrorPattern `json:"field_error_patterns"`
	}{rep, aggs, patterns}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
