package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
)

// Accumulator is the running sum and count of one group.
type Accumulator[K comparable] struct {
	Key   K
	Sum   float64
	Count int
}

// Average is Sum/Count. Count is at least 1 for every accumulator Aggregate returns.
func (a Accumulator[K]) Average() float64 {
	return a.Sum / float64(a.Count)
}

// KeyFunc derives the group key of a record.
type KeyFunc[K comparable] func(rec model.Record) (K, error)

// ValueFunc extracts the number being summed.
type ValueFunc func(rec model.Record) float64

// Aggregate groups records in a single pass. The result holds one accumulator
// per distinct key, in the order each key was first seen. A key function
// failure aborts the whole aggregation.
func Aggregate[K comparable](records []model.Record, keyFn KeyFunc[K], valueFn ValueFunc) ([]Accumulator[K], error) {
	positions := make(map[K]int)
	results := make([]Accumulator[K], 0)

	for i, rec := range records {
		key, err := keyFn(rec)
		if err != nil {
			return nil, domain.NewMalformedInputError(i+1, err)
		}

		pos, exists := positions[key]
		if !exists {
			pos = len(results)
			positions[key] = pos
			results = append(results, Accumulator[K]{Key: key})
		}

		value := valueFn(rec)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			value = 0
		}
		results[pos].Sum += value
		results[pos].Count++
	}

	return results, nil
}

// Head returns the first k items. It is a view, nothing is sorted.
func Head[T any](items []T, k int) []T {
	if k < 0 || k >= len(items) {
		return items
	}
	return items[:k]
}

// ------------------- Key and value functions -------------------

// DepartmentKey reads a composite id such as "store_dept_date" from field and
// returns the integer department part.
func DepartmentKey(field string) KeyFunc[int] {
	return func(rec model.Record) (int, error) {
		id := rec.String(field)
		parts := strings.Split(id, "_")
		if len(parts) < 2 {
			return 0, fmt.Errorf("field %s: %q is not a store_dept_date id", field, id)
		}
		dept, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, fmt.Errorf("field %s: department %q is not an integer", field, parts[1])
		}
		return dept, nil
	}
}

// FieldKey groups by the text of field. Records without it are malformed.
func FieldKey(field string) KeyFunc[string] {
	return func(rec model.Record) (string, error) {
		key := rec.String(field)
		if key == "" {
			return "", fmt.Errorf("missing %s", field)
		}
		return key, nil
	}
}

// FieldValue sums field leniently: malformed numbers count as 0.
func FieldValue(field string) ValueFunc {
	return func(rec model.Record) float64 {
		return rec.Float(field)
	}
}
