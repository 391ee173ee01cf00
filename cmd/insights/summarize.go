package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"retail-insights/internal/pipeline"
)

var summarizeCmd = &cobra.Command{
	Use:       "summarize <products|pricing|marketing|trending>",
	Short:     "Print a data view without starting the server",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"products", "pricing", "marketing", "trending"},
	RunE:      runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeCmd.Flags().Int("limit", 0, "number of departments for products")
	summarizeCmd.Flags().Bool("csv", false, "write products as CSV")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	asCSV, _ := cmd.Flags().GetBool("csv")

	var data interface{}
	switch args[0] {
	case "products":
		products, err := a.insights.Products(ctx, limit)
		if err != nil {
			return err
		}
		if asCSV {
			n, err := pipeline.WriteSummariesCSV(os.Stdout, products)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, color.GreenString("✓"), n, "departments exported")
			return nil
		}
		data = products
	case "pricing":
		data, err = a.insights.Pricing(ctx)
	case "marketing":
		data, err = a.insights.Marketing(ctx)
	case "trending":
		data, err = a.insights.Trending(ctx)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
