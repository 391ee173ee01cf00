package insights

import (
	"retail-insights/internal/domain"
	"retail-insights/internal/model"
	"retail-insights/internal/pipeline"
)

// GroupChannels collects the platform rows of each product, in the order the
// products first appear. averageEffectiveness comes from the aggregation engine.
func GroupChannels(records []model.Record) ([]model.MarketingRecord, error) {
	accs, err := pipeline.Aggregate(records, pipeline.FieldKey(FieldProductName), pipeline.FieldValue(FieldEffectiveness))
	if err != nil {
		return nil, err
	}

	channels := make(map[string][]model.Channel, len(accs))
	messages := make(map[string]string, len(accs))
	for _, rec := range records {
		product := rec.String(FieldProductName)
		channels[product] = append(channels[product], model.Channel{
			Name:          rec.String(FieldPlatform),
			Effectiveness: rec.Float(FieldEffectiveness),
			Cost:          rec.String(FieldCost),
			ROI:           rec.String(FieldROI),
		})
		if messages[product] == "" {
			messages[product] = rec.String(FieldOptimalMessage)
		}
	}

	out := make([]model.MarketingRecord, 0, len(accs))
	for i, acc := range accs {
		out = append(out, model.MarketingRecord{
			ID:                   i + 1,
			Product:              acc.Key,
			Channels:             channels[acc.Key],
			OptimalMessage:       messages[acc.Key],
			AverageEffectiveness: pipeline.RoundTo(acc.Average(), 2),
		})
	}
	return out, nil
}

// TopTrending returns the row with the highest numeric trend score. Only a
// strictly higher score replaces the current best, and rows without a numeric
// score are only chosen when no row has one.
func TopTrending(records []model.Record) (model.TrendRecord, error) {
	if len(records) == 0 {
		return model.TrendRecord{}, domain.NewInputError(model.SourceTrending, "source is empty", nil)
	}

	best := 0
	bestScore, bestNumeric := records[0].FloatOK(FieldTrendScore)
	for i, rec := range records[1:] {
		score, ok := rec.FloatOK(FieldTrendScore)
		if !ok {
			continue
		}
		if !bestNumeric || score > bestScore {
			best, bestScore, bestNumeric = i+1, score, true
		}
	}
	return TrendRecordFrom(records[best]), nil
}
