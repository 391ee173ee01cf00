package insights

// Column names of the well-known sources.
const (
	FieldID          = "Id"
	FieldWeeklySales = "Weekly_Sales"

	FieldProductName    = "Product Name"
	FieldCategory       = "Category"
	FieldTrendLabel     = "Trend Label"
	FieldPredictedLabel = "Predicted Label"
	FieldTrendScore     = "Trend Score"
	FieldExpectedSales  = "Expected Sales"
	FieldConfidence     = "Confidence (%)"

	FieldYear         = "Year"
	FieldMonth        = "Month"
	FieldPrice        = "Price"
	FieldOptimalPrice = "Predicted Optimal Price"
	FieldDiscount     = "Discount"
	FieldStockLeft    = "Stock Left"

	FieldPlatform       = "Platform"
	FieldEffectiveness  = "Effectiveness"
	FieldCost           = "Cost"
	FieldROI            = "ROI"
	FieldOptimalMessage = "Optimal Message"
)
