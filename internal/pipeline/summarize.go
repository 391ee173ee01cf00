package pipeline

import (
	"fmt"
	"math"

	"retail-insights/internal/config"
	"retail-insights/internal/domain"
	"retail-insights/internal/model"
	"retail-insights/pkg/utils"
)

// SummaryRules are the fixed derivation rules applied to every accumulator.
type SummaryRules struct {
	NameFormat    string
	Category      string
	DemandTiers   []config.DemandTier
	DefaultDemand string
}

// DefaultSummaryRules mirrors the configuration defaults.
func DefaultSummaryRules() SummaryRules {
	return SummaryRules{
		NameFormat:    "Department %s",
		Category:      "General",
		DemandTiers:   config.DefaultDemandTiers(),
		DefaultDemand: "Medium",
	}
}

// RulesFromConfig builds summary rules from the insights settings.
func RulesFromConfig(cfg config.InsightsConfig) SummaryRules {
	rules := SummaryRules{
		NameFormat:    cfg.NameFormat,
		Category:      cfg.Category,
		DemandTiers:   cfg.DemandTiers,
		DefaultDemand: cfg.DefaultDemand,
	}
	defaults := DefaultSummaryRules()
	if !config.ValidNameFormat(rules.NameFormat) {
		rules.NameFormat = defaults.NameFormat
	}
	if len(rules.DemandTiers) == 0 {
		rules.DemandTiers = defaults.DemandTiers
	}
	if rules.DefaultDemand == "" {
		rules.DefaultDemand = defaults.DefaultDemand
	}
	return rules
}

// Demand labels an average with the first tier it exceeds.
// Tiers are checked in order, so list them from the highest threshold down.
func (r SummaryRules) Demand(average float64) string {
	for _, tier := range r.DemandTiers {
		if average > tier.Above {
			return tier.Label
		}
	}
	return r.DefaultDemand
}

// TrendScore is round(average mod 100 + 50).
func TrendScore(average float64) int {
	return int(utils.RoundHalfUp(math.Mod(average, 100) + 50))
}

// Summarize turns accumulators into summary records, numbering them from 1.
// Callers wanting the first K summaries truncate the accumulators with Head first.
func Summarize[K comparable](accs []Accumulator[K], rules SummaryRules, filler FillerProvider) ([]model.SummaryRecord, error) {
	if filler == nil {
		return nil, domain.NewFillerUnavailableError()
	}

	out := make([]model.SummaryRecord, 0, len(accs))
	for i, acc := range accs {
		average := acc.Average()
		key := fmt.Sprint(acc.Key)

		out = append(out, model.SummaryRecord{
			ID:              i + 1,
			Key:             key,
			Name:            fmt.Sprintf(rules.NameFormat, key),
			Category:        rules.Category,
			TrendScore:      TrendScore(average),
			PredictedDemand: rules.Demand(average),
			CurrentPrice:    filler.CurrentPrice(),
			OptimalPrice:    filler.OptimalPrice(),
			PriceChange:     filler.PriceChange(),
			ExpectedSales:   int64(utils.RoundHalfUp(average)),
			WasteReduction:  filler.WasteReduction(),
			Confidence:      filler.Confidence(),
			TotalSales:      acc.Sum,
			Count:           acc.Count,
			AverageSales:    average,
		})
	}
	return out, nil
}
