package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"retail-insights/internal/model"
)

var summaryCSVHeader = []string{
	"id", "name", "category", "trend_score", "predicted_demand", "current_price",
	"optimal_price", "price_change", "expected_sales", "waste_reduction", "confidence",
	"total_sales", "count", "average_sales",
}

// WriteSummariesCSV writes summaries as CSV and returns the number of data rows written.
func WriteSummariesCSV(w io.Writer, data []model.SummaryRecord) (int, error) {
	writer := csv.NewWriter(w)

	if err := writer.Write(summaryCSVHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	recordCount := 0
	for _, s := range data {
		row := []string{
			strconv.Itoa(s.ID),
			s.Name,
			s.Category,
			strconv.Itoa(s.TrendScore),
			s.PredictedDemand,
			strconv.FormatFloat(s.CurrentPrice, 'f', 2, 64),
			strconv.FormatFloat(s.OptimalPrice, 'f', 2, 64),
			s.PriceChange,
			strconv.FormatInt(s.ExpectedSales, 10),
			s.WasteReduction,
			strconv.Itoa(s.Confidence),
			strconv.FormatFloat(s.TotalSales, 'f', -1, 64),
			strconv.Itoa(s.Count),
			strconv.FormatFloat(s.AverageSales, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return recordCount, fmt.Errorf("failed to write row: %w", err)
		}
		recordCount++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return recordCount, fmt.Errorf("failed to flush csv: %w", err)
	}
	return recordCount, nil
}
