package pipeline

import "retail-insights/internal/model"

// Index is a string keyed map that remembers insertion order.
// The first value stored under a key wins.
type Index[V any] struct {
	keys   []string
	values map[string]V
}

func NewIndex[V any]() *Index[V] {
	return &Index[V]{values: make(map[string]V)}
}

// Add stores v under key unless the key is already present.
func (ix *Index[V]) Add(key string, v V) bool {
	if _, exists := ix.values[key]; exists {
		return false
	}
	ix.keys = append(ix.keys, key)
	ix.values[key] = v
	return true
}

func (ix *Index[V]) Get(key string) (V, bool) {
	v, ok := ix.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (ix *Index[V]) Keys() []string {
	return ix.keys
}

func (ix *Index[V]) Len() int {
	return len(ix.keys)
}

// LaterFunc reports whether a is strictly later than b.
type LaterFunc[S any] func(a, b S) bool

// MergeFunc builds the joined record for one primary key. latest is nil when
// the key has no secondary observation.
type MergeFunc[P, S, J any] func(id int, key string, primary P, latest *S) J

// SelectLatest returns the maximal observation under later. Only a strictly
// later observation replaces the current best, so ties keep the first one.
func SelectLatest[S any](observations []S, later LaterFunc[S]) (S, bool) {
	var best S
	if len(observations) == 0 {
		return best, false
	}
	best = observations[0]
	for _, obs := range observations[1:] {
		if later(obs, best) {
			best = obs
		}
	}
	return best, true
}

// JoinLatest merges every primary record with the latest secondary observation
// for its key. Output follows the primary insertion order with ids from 1.
// A missing key or empty list is not an error; merge receives a nil observation.
func JoinLatest[P, S, J any](primary *Index[P], secondaryByKey map[string][]S, later LaterFunc[S], merge MergeFunc[P, S, J]) []J {
	out := make([]J, 0, primary.Len())
	for i, key := range primary.Keys() {
		p, _ := primary.Get(key)

		var latest *S
		if obs, ok := SelectLatest(secondaryByKey[key], later); ok {
			latest = &obs
		}
		out = append(out, merge(i+1, key, p, latest))
	}
	return out
}

// ObservedLater orders price observations by year, then month.
// An observation with an unparseable period ranks below every valid one.
func ObservedLater(a, b model.PriceObservation) bool {
	if !a.ValidPeriod {
		return false
	}
	if !b.ValidPeriod {
		return true
	}
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	return a.Month > b.Month
}
