package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"retail-insights/internal/domain"
	"retail-insights/internal/pipeline"
	"retail-insights/pkg/logger"
)

// GetProducts returns per-department summaries of the submission file
// @Summary Product summaries
// @Description Aggregates weekly sales by department and returns the first departments in file order
// @Tags products
// @Produce json
// @Param limit query int false "Number of departments (default 10, capped by configuration)"
// @Success 200 {object} Response{data=[]model.SummaryRecord}
// @Failure 400 {object} Response "Invalid limit"
// @Failure 404 {object} Response "Submission file not uploaded"
// @Failure 422 {object} Response "Malformed submission file"
// @Router /products [get]
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	products, err := h.Insights.Products(r.Context(), limit)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	SuccessResponse(w, products)
}

// ExportProducts downloads the product summaries as CSV
// @Summary Export product summaries
// @Description Same data as /products rendered as a CSV attachment
// @Tags products
// @Produce text/csv
// @Param limit query int false "Number of departments"
// @Success 200 {string} string "CSV file"
// @Failure 404 {object} Response "Submission file not uploaded"
// @Router /products/export [get]
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	products, err := h.Insights.Products(r.Context(), limit)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	filename := fmt.Sprintf("products_%s.csv", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := pipeline.WriteSummariesCSV(w, products); err != nil {
		// status line is already sent
		logger.FromContext(r.Context()).Error("csv export interrupted", "error", err)
	}
}

// GetPricing joins trending products with their latest price prediction
// @Summary Pricing view
// @Description Every trending product with its most recent price observation; price fields are null when none exists
// @Tags products
// @Produce json
// @Success 200 {object} Response{data=[]model.PricingRecord}
// @Failure 404 {object} Response "Trending file not uploaded"
// @Router /products/pricing [get]
func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	pricing, err := h.Insights.Pricing(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	SuccessResponse(w, pricing)
}

// GetTrending returns the trend report
// @Summary Trending products
// @Description Top trending product plus every row of the trending file
// @Tags products
// @Produce json
// @Success 200 {object} Response{data=model.TrendingReport}
// @Failure 404 {object} Response "Trending file not uploaded"
// @Failure 422 {object} Response "Trending file is empty"
// @Router /products/trending [get]
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	report, err := h.Insights.Trending(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	SuccessResponse(w, report)
}

// GetMarketing groups marketing channels by product
// @Summary Marketing channels
// @Description Platform rows grouped by product with their average effectiveness
// @Tags marketing
// @Produce json
// @Success 200 {object} Response{data=[]model.MarketingRecord}
// @Failure 404 {object} Response "Platform file not uploaded"
// @Router /marketing [get]
func (h *Handler) GetMarketing(w http.ResponseWriter, r *http.Request) {
	marketing, err := h.Insights.Marketing(r.Context())
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	SuccessResponse(w, marketing)
}

// parseLimit reads ?limit=. Absent means 0, which the service turns into its default.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, domain.NewInvalidInputError("limit must be a positive integer")
	}
	return limit, nil
}
