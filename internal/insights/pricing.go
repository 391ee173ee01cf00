package insights

import (
	"fmt"

	"github.com/shopspring/decimal"

	"retail-insights/internal/model"
	"retail-insights/internal/pipeline"
)

// TrendRecordFrom reads one row of the trending source.
func TrendRecordFrom(rec model.Record) model.TrendRecord {
	return model.TrendRecord{
		Name:           rec.String(FieldProductName),
		Category:       rec.String(FieldCategory),
		TrendLabel:     rec.String(FieldTrendLabel),
		PredictedLabel: rec.String(FieldPredictedLabel),
		TrendScore:     rec.Float(FieldTrendScore),
		ExpectedSales:  rec.Float(FieldExpectedSales),
		Confidence:     rec.Float(FieldConfidence),
	}
}

// PriceObservationFrom reads one row of the price predictions source. The
// period is valid only when year and month are whole numbers and the month is 1-12.
func PriceObservationFrom(rec model.Record) model.PriceObservation {
	obs := model.PriceObservation{
		Name:         rec.String(FieldProductName),
		Price:        optionalFloat(rec, FieldPrice),
		OptimalPrice: optionalFloat(rec, FieldOptimalPrice),
		Discount:     optionalFloat(rec, FieldDiscount),
		StockLeft:    optionalFloat(rec, FieldStockLeft),
	}

	year, yearErr := rec.Int(FieldYear)
	month, monthErr := rec.Int(FieldMonth)
	if yearErr == nil && monthErr == nil && month >= 1 && month <= 12 {
		obs.Year = year
		obs.Month = month
		obs.ValidPeriod = true
	}
	return obs
}

// PriceChange is (optimal - current) / current as a signed percentage with one
// decimal, e.g. "+12.5%". It is nil when either price is missing or current is 0.
func PriceChange(current, optimal *float64) *string {
	if current == nil || optimal == nil || *current == 0 {
		return nil
	}

	pct := decimal.NewFromFloat(*optimal).
		Sub(decimal.NewFromFloat(*current)).
		Div(decimal.NewFromFloat(*current)).
		Mul(decimal.NewFromInt(100)).
		Round(1)

	s := pct.StringFixed(1) + "%"
	if !pct.IsNegative() {
		s = "+" + s
	}
	return &s
}

func mergePricing(id int, trend model.TrendRecord, latest *model.PriceObservation, filler pipeline.FillerProvider) model.PricingRecord {
	out := model.PricingRecord{
		ID:             id,
		Name:           trend.Name,
		Category:       trend.Category,
		TrendLabel:     trend.TrendLabel,
		PredictedLabel: trend.PredictedLabel,
		TrendScore:     trend.TrendScore,
		ExpectedSales:  trend.ExpectedSales,
		Confidence:     trend.Confidence,
		WasteReduction: filler.WasteReduction(),
	}
	if latest == nil {
		return out
	}

	out.CurrentPrice = latest.Price
	out.OptimalPrice = latest.OptimalPrice
	out.Discount = latest.Discount
	out.StockLeft = latest.StockLeft
	out.PriceChange = PriceChange(latest.Price, latest.OptimalPrice)
	if latest.ValidPeriod {
		period := fmt.Sprintf("%04d-%02d", latest.Year, latest.Month)
		out.ObservedPeriod = &period
	}
	return out
}

func optionalFloat(rec model.Record, field string) *float64 {
	v, ok := rec.FloatOK(field)
	if !ok {
		return nil
	}
	return &v
}
