package model

// SummaryRecord is the per-department view served by /products.
type SummaryRecord struct {
	ID              int     `json:"id"`
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	TrendScore      int     `json:"trendScore"`
	PredictedDemand string  `json:"predictedDemand"`
	CurrentPrice    float64 `json:"currentPrice"`
	OptimalPrice    float64 `json:"optimalPrice"`
	PriceChange     string  `json:"priceChange"`
	ExpectedSales   int64   `json:"expectedSales"`
	WasteReduction  string  `json:"wasteReduction"`
	Confidence      int     `json:"confidence"`
	TotalSales      float64 `json:"totalSales"`
	Count           int     `json:"count"`
	AverageSales    float64 `json:"averageSales"`
}

// TrendRecord is one row of the trending products source.
type TrendRecord struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	TrendLabel     string  `json:"trendLabel"`
	PredictedLabel string  `json:"predictedLabel"`
	TrendScore     float64 `json:"trendScore"`
	ExpectedSales  float64 `json:"expectedSales"`
	Confidence     float64 `json:"confidence"`
}

// PriceObservation is one time-stamped row of the price predictions source.
type PriceObservation struct {
	Name         string
	Year         int
	Month        int
	ValidPeriod  bool
	Price        *float64
	OptimalPrice *float64
	Discount     *float64
	StockLeft    *float64
}

// PricingRecord joins a trend record with its latest price observation.
// Pointer fields are null when no observation exists.
type PricingRecord struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	TrendLabel     string   `json:"trendLabel"`
	PredictedLabel string   `json:"predictedLabel"`
	TrendScore     float64  `json:"trendScore"`
	ExpectedSales  float64  `json:"expectedSales"`
	Confidence     float64  `json:"confidence"`
	CurrentPrice   *float64 `json:"currentPrice"`
	OptimalPrice   *float64 `json:"optimalPrice"`
	Discount       *float64 `json:"discount"`
	StockLeft      *float64 `json:"stockLeft"`
	PriceChange    *string  `json:"priceChange"`
	ObservedPeriod *string  `json:"observedPeriod"`
	WasteReduction string   `json:"wasteReduction"`
}

// Channel is one marketing platform entry of a product.
type Channel struct {
	Name          string  `json:"name"`
	Effectiveness float64 `json:"effectiveness"`
	Cost          string  `json:"cost"`
	ROI           string  `json:"roi"`
}

// MarketingRecord groups every channel row of one product.
type MarketingRecord struct {
	ID                   int       `json:"id"`
	Product              string    `json:"product"`
	Channels             []Channel `json:"channels"`
	OptimalMessage       string    `json:"optimalMessage"`
	AverageEffectiveness float64   `json:"averageEffectiveness"`
}

// TrendingReport is the top product plus every trend row, in file order.
type TrendingReport struct {
	Top      TrendRecord   `json:"top"`
	Products []TrendRecord `json:"products"`
}
