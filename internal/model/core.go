package model

import (
	"strconv"
	"strings"

	"retail-insights/pkg/utils"
)

// Record is one CSV row keyed by header name. Values are int, float64 or string.
type Record map[string]interface{}

// Value returns the raw value of field and whether it is present.
func (r Record) Value(field string) (interface{}, bool) {
	v, ok := r[field]
	return v, ok
}

// String renders field as text; missing fields are "".
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns field as a number; missing or malformed values are 0.
func (r Record) Float(field string) float64 {
	return utils.Numeric(r[field])
}

// FloatOK returns field as a number and whether it was a finite number.
func (r Record) FloatOK(field string) (float64, bool) {
	return utils.ToFloat(r[field])
}

// Int returns field as a whole number.
func (r Record) Int(field string) (int, error) {
	return utils.ToInt(r[field])
}

// Source describes one well-known uploaded CSV file.
type Source struct {
	Name           string   `json:"name" mapstructure:"name"`
	File           string   `json:"file" mapstructure:"file"`
	RequiredFields []string `json:"requiredFields" mapstructure:"required_fields"`
}

// Logical source names.
const (
	SourceSubmission = "submission"
	SourceTrending   = "trending-products"
	SourcePricing    = "optimal-price-predictions"
	SourcePlatforms  = "platform-types"
)
