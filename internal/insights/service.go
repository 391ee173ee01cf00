// Package insights serves the product, pricing, marketing and trending views
// built from the uploaded CSV sources.
package insights

import (
	"context"
	"fmt"

	"retail-insights/internal/config"
	"retail-insights/internal/domain"
	"retail-insights/internal/metrics"
	"retail-insights/internal/model"
	"retail-insights/internal/pipeline"
	"retail-insights/pkg/logger"
)

const defaultProductLimit = 10

// Service reads the configured sources on every call. Nothing is cached.
type Service struct {
	sources  config.SourcesConfig
	settings config.InsightsConfig
	rules    pipeline.SummaryRules
	filler   pipeline.FillerProvider
}

func NewService(sources config.SourcesConfig, settings config.InsightsConfig, filler pipeline.FillerProvider) *Service {
	return &Service{
		sources:  sources,
		settings: settings,
		rules:    pipeline.RulesFromConfig(settings),
		filler:   filler,
	}
}

// Limit clamps a requested product count. Zero or negative means the default.
func (s *Service) Limit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.settings.ProductLimit
		if limit <= 0 {
			limit = defaultProductLimit
		}
	}
	if s.settings.MaxProductLimit > 0 && limit > s.settings.MaxProductLimit {
		limit = s.settings.MaxProductLimit
	}
	return limit
}

// Products aggregates weekly sales by department and summarizes the first
// limit departments in the order they appear in the submission file.
func (s *Service) Products(ctx context.Context, limit int) ([]model.SummaryRecord, error) {
	records, err := s.read(ctx, model.SourceSubmission)
	if err != nil {
		return nil, err
	}

	accs, err := pipeline.Aggregate(records, pipeline.DepartmentKey(FieldID), pipeline.FieldValue(FieldWeeklySales))
	if err != nil {
		return nil, err
	}
	metrics.RecordAggregation(model.SourceSubmission, len(records), len(accs))

	summaries, err := pipeline.Summarize(pipeline.Head(accs, s.Limit(limit)), s.rules, s.filler)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("products summarized",
		"records", len(records),
		"departments", len(accs),
		"returned", len(summaries),
	)
	return summaries, nil
}

// Pricing joins every trending product with its most recent price observation.
// A price file that was never uploaded leaves the price fields null.
func (s *Service) Pricing(ctx context.Context) ([]model.PricingRecord, error) {
	if s.filler == nil {
		return nil, domain.NewFillerUnavailableError()
	}

	trendSrc, _ := s.sources.Lookup(model.SourceTrending)
	priceSrc, _ := s.sources.Lookup(model.SourcePricing)

	trends := &pipeline.SourceLoad{Source: trendSrc.Name, Path: s.sources.Path(trendSrc)}
	prices := &pipeline.SourceLoad{Source: priceSrc.Name, Path: s.sources.Path(priceSrc), Optional: true}
	if err := pipeline.LoadAll(ctx, trends, prices); err != nil {
		return nil, err
	}

	primary := pipeline.NewIndex[model.TrendRecord]()
	for i, rec := range trends.Records {
		trend := TrendRecordFrom(rec)
		if trend.Name == "" {
			return nil, domain.NewMalformedInputError(i+1, fmt.Errorf("missing %s", FieldProductName))
		}
		primary.Add(trend.Name, trend)
	}

	observations := make(map[string][]model.PriceObservation)
	for _, rec := range prices.Records {
		obs := PriceObservationFrom(rec)
		if obs.Name == "" {
			continue
		}
		observations[obs.Name] = append(observations[obs.Name], obs)
	}
	metrics.RecordAggregation(model.SourceTrending, len(trends.Records), primary.Len())
	metrics.RecordAggregation(model.SourcePricing, len(prices.Records), len(observations))

	joined := pipeline.JoinLatest(primary, observations, pipeline.ObservedLater,
		func(id int, _ string, trend model.TrendRecord, latest *model.PriceObservation) model.PricingRecord {
			return mergePricing(id, trend, latest, s.filler)
		})

	logger.FromContext(ctx).Debug("pricing joined",
		"products", len(joined),
		"priced_products", len(observations),
		"price_source_missing", prices.Missing,
	)
	return joined, nil
}

// Marketing groups the platform rows by product.
func (s *Service) Marketing(ctx context.Context) ([]model.MarketingRecord, error) {
	records, err := s.read(ctx, model.SourcePlatforms)
	if err != nil {
		return nil, err
	}

	grouped, err := GroupChannels(records)
	if err != nil {
		return nil, err
	}
	metrics.RecordAggregation(model.SourcePlatforms, len(records), len(grouped))
	return grouped, nil
}

// Trending returns every trend row plus the one with the highest score.
func (s *Service) Trending(ctx context.Context) (*model.TrendingReport, error) {
	records, err := s.read(ctx, model.SourceTrending)
	if err != nil {
		return nil, err
	}

	top, err := TopTrending(records)
	if err != nil {
		return nil, err
	}

	products := make([]model.TrendRecord, 0, len(records))
	for _, rec := range records {
		products = append(products, TrendRecordFrom(rec))
	}
	return &model.TrendingReport{Top: top, Products: products}, nil
}

func (s *Service) read(ctx context.Context, name string) ([]model.Record, error) {
	src, ok := s.sources.Lookup(name)
	if !ok {
		return nil, domain.NewSourceNotFoundError(name, nil)
	}
	return pipeline.ReadCSV(ctx, src.Name, s.sources.Path(src))
}
