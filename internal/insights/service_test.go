package insights

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/internal/config"
	"retail-insights/internal/domain"
	"retail-insights/internal/model"
)

type stubFiller struct{}

func (stubFiller) CurrentPrice() float64  { return 2.5 }
func (stubFiller) OptimalPrice() float64  { return 3 }
func (stubFiller) PriceChange() string    { return "4.0%" }
func (stubFiller) WasteReduction() string { return "15%" }
func (stubFiller) Confidence() int        { return 88 }

func testSources(t *testing.T) config.SourcesConfig {
	t.Helper()
	return config.SourcesConfig{
		Dir:        t.TempDir(),
		Submission: "submission.csv",
		Trending:   "trending.csv",
		Pricing:    "prices.csv",
		Platforms:  "platforms.csv",
	}
}

func writeSource(t *testing.T, sources config.SourcesConfig, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(sources.Dir, file), []byte(content), 0o644))
}

func newTestService(sources config.SourcesConfig) *Service {
	return NewService(sources, config.InsightsConfig{ProductLimit: 10, MaxProductLimit: 50}, stubFiller{})
}

func TestService_Limit(t *testing.T) {
	svc := newTestService(config.SourcesConfig{})
	assert.Equal(t, 10, svc.Limit(0))
	assert.Equal(t, 10, svc.Limit(-3))
	assert.Equal(t, 3, svc.Limit(3))
	assert.Equal(t, 50, svc.Limit(500))

	bare := NewService(config.SourcesConfig{}, config.InsightsConfig{}, stubFiller{})
	assert.Equal(t, 10, bare.Limit(0))
	assert.Equal(t, 500, bare.Limit(500))
}

func TestService_Products(t *testing.T) {
	sources := testSources(t)
	writeSource(t, sources, sources.Submission,
		"Id,Weekly_Sales\n1_1_2024-01-01,100\n1_1_2024-01-08,300\n1_2_2024-01-01,50\n1_3_2024-01-01,N/A\n")
	svc := newTestService(sources)

	out, err := svc.Products(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Department 1", out[0].Name)
	assert.Equal(t, 2, out[0].Count)
	assert.Equal(t, 400.0, out[0].TotalSales)
	assert.Equal(t, 200.0, out[0].AverageSales)
	assert.Equal(t, int64(200), out[0].ExpectedSales)
	assert.Equal(t, 50, out[0].TrendScore)
	assert.Equal(t, 88, out[0].Confidence)

	assert.Equal(t, 50.0, out[1].AverageSales)
	assert.Equal(t, 0.0, out[2].TotalSales)

	limited, err := svc.Products(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, out[:2], limited)
}

func TestService_ProductsErrors(t *testing.T) {
	sources := testSources(t)
	svc := newTestService(sources)

	_, err := svc.Products(context.Background(), 0)
	assert.True(t, domain.IsSourceNotFound(err))

	writeSource(t, sources, sources.Submission, "Id,Weekly_Sales\nbad-id,1\n")
	_, err = svc.Products(context.Background(), 0)
	assert.True(t, domain.IsMalformedInput(err))

	nilFiller := NewService(sources, config.InsightsConfig{}, nil)
	writeSource(t, sources, sources.Submission, "Id,Weekly_Sales\n1_1_x,1\n")
	_, err = nilFiller.Products(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrFillerUnavailable)
}

const trendingCSV = "Product Name,Category,Trend Label,Predicted Label,Trend Score,Expected Sales,Confidence (%)\n" +
	"Apples,Produce,Rising,Hot,72,1200,91\n" +
	"Milk,Dairy,Stable,Warm,88,900,85\n" +
	"Bread,Bakery,Falling,Cold,88,400,70\n" +
	"Apples,Produce,Rising,Hot,10,1,1\n"

func TestService_Pricing(t *testing.T) {
	sources := testSources(t)
	writeSource(t, sources, sources.Trending, trendingCSV)
	writeSource(t, sources, sources.Pricing,
		"Product Name,Year,Month,Price,Predicted Optimal Price,Discount,Stock Left\n"+
			"Apples,2023,1,1.00,1.10,5,40\n"+
			"Apples,2023,6,2.00,2.50,10,30\n"+
			"Apples,2022,12,3.00,3.30,0,10\n"+
			"Milk,June,2024,9.99,8.99,0,5\n"+
			"Milk,2021,3,4.00,3.00,,\n")
	svc := newTestService(sources)

	out, err := svc.Pricing(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)

	apples := out[0]
	assert.Equal(t, 1, apples.ID)
	assert.Equal(t, "Apples", apples.Name)
	assert.Equal(t, 72.0, apples.TrendScore)
	require.NotNil(t, apples.CurrentPrice)
	assert.Equal(t, 2.0, *apples.CurrentPrice)
	assert.Equal(t, 2.5, *apples.OptimalPrice)
	assert.Equal(t, "+25.0%", *apples.PriceChange)
	assert.Equal(t, "2023-06", *apples.ObservedPeriod)
	assert.Equal(t, "15%", apples.WasteReduction)

	milk := out[1]
	require.NotNil(t, milk.CurrentPrice)
	assert.Equal(t, 4.0, *milk.CurrentPrice)
	assert.Equal(t, "-25.0%", *milk.PriceChange)
	assert.Nil(t, milk.Discount)
	assert.Nil(t, milk.StockLeft)

	bread := out[2]
	assert.Equal(t, 3, bread.ID)
	assert.Nil(t, bread.CurrentPrice)
	assert.Nil(t, bread.OptimalPrice)
	assert.Nil(t, bread.Discount)
	assert.Nil(t, bread.StockLeft)
	assert.Nil(t, bread.PriceChange)
	assert.Nil(t, bread.ObservedPeriod)
}

func TestService_PricingWithoutPriceFile(t *testing.T) {
	sources := testSources(t)
	writeSource(t, sources, sources.Trending, trendingCSV)
	svc := newTestService(sources)

	out, err := svc.Pricing(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, rec := range out {
		assert.Nil(t, rec.CurrentPrice)
		assert.Nil(t, rec.PriceChange)
	}
}

func TestService_PricingNeedsTrending(t *testing.T) {
	sources := testSources(t)
	svc := newTestService(sources)

	_, err := svc.Pricing(context.Background())
	assert.True(t, domain.IsSourceNotFound(err))
}

func TestService_Marketing(t *testing.T) {
	sources := testSources(t)
	writeSource(t, sources, sources.Platforms,
		"Product Name,Platform,Effectiveness,Cost,ROI,Optimal Message\n"+
			"Apples,Instagram,80,Low,High,\n"+
			"Milk,TV,60,High,Medium,Fresh every day\n"+
			"Apples,Email,71,Low,Medium,Crunchy deals\n"+
			"Apples,SMS,n/a,Low,Low,Ignored\n")
	svc := newTestService(sources)

	out, err := svc.Marketing(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, "Apples", out[0].Product)
	require.Len(t, out[0].Channels, 3)
	assert.Equal(t, "Instagram", out[0].Channels[0].Name)
	assert.Equal(t, "Crunchy deals", out[0].OptimalMessage)
	assert.Equal(t, 50.33, out[0].AverageEffectiveness)

	assert.Equal(t, "Milk", out[1].Product)
	assert.Equal(t, 60.0, out[1].AverageEffectiveness)
	assert.Equal(t, model.Channel{Name: "TV", Effectiveness: 60, Cost: "High", ROI: "Medium"}, out[1].Channels[0])
}

func TestService_Trending(t *testing.T) {
	sources := testSources(t)
	writeSource(t, sources, sources.Trending, trendingCSV)
	svc := newTestService(sources)

	report, err := svc.Trending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Milk", report.Top.Name)
	assert.Len(t, report.Products, 4)
}

func TestTopTrending(t *testing.T) {
	_, err := TopTrending(nil)
	assert.True(t, domain.IsInput(err))

	top, err := TopTrending([]model.Record{
		{FieldProductName: "A", FieldTrendScore: "high"},
		{FieldProductName: "B", FieldTrendScore: -5},
		{FieldProductName: "C", FieldTrendScore: -5.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "B", top.Name)

	top, err = TopTrending([]model.Record{{FieldProductName: "only", FieldTrendScore: "?"}})
	require.NoError(t, err)
	assert.Equal(t, "only", top.Name)
}

func TestPriceChange(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Nil(t, PriceChange(nil, f(1)))
	assert.Nil(t, PriceChange(f(1), nil))
	assert.Nil(t, PriceChange(f(0), f(1)))
	assert.Equal(t, "+0.0%", *PriceChange(f(3), f(3)))
	assert.Equal(t, "+10.0%", *PriceChange(f(10), f(11)))
	assert.Equal(t, "-33.3%", *PriceChange(f(3), f(2)))
}

func TestPriceObservationFrom(t *testing.T) {
	obs := PriceObservationFrom(model.Record{FieldProductName: "A", FieldYear: 2024, FieldMonth: 13, FieldPrice: 1})
	assert.False(t, obs.ValidPeriod)
	require.NotNil(t, obs.Price)

	obs = PriceObservationFrom(model.Record{FieldProductName: "A", FieldYear: 2024, FieldMonth: "7"})
	assert.True(t, obs.ValidPeriod)
	assert.Equal(t, 7, obs.Month)
	assert.Nil(t, obs.Price)

	obs = PriceObservationFrom(model.Record{FieldProductName: "A", FieldYear: 1e300, FieldMonth: 1})
	assert.False(t, obs.ValidPeriod)
}
