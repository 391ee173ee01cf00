package pipeline

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/shopspring/decimal"
)

// FillerProvider supplies the output fields that have no basis in the input
// data. Production uses RandomFiller; tests plug in fixed values.
type FillerProvider interface {
	// CurrentPrice is in [1, 11), two decimals.
	CurrentPrice() float64
	// OptimalPrice is in [2, 12), two decimals.
	OptimalPrice() float64
	// PriceChange is a percentage in [-10, 10) with one decimal, e.g. "-3.2%".
	PriceChange() string
	// WasteReduction is a whole percentage in [10, 34], e.g. "23%".
	WasteReduction() string
	// Confidence is a whole number in [75, 94].
	Confidence() int
}

// RandomFiller draws placeholder values uniformly. Safe for concurrent use.
type RandomFiller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomFiller returns a filler seeded from the runtime's random source.
func NewRandomFiller() *RandomFiller {
	return NewSeededFiller(rand.Uint64(), rand.Uint64())
}

// NewSeededFiller returns a filler with a reproducible sequence.
func NewSeededFiller(seed1, seed2 uint64) *RandomFiller {
	return &RandomFiller{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (f *RandomFiller) float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Float64()
}

func (f *RandomFiller) intN(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.IntN(n)
}

func (f *RandomFiller) CurrentPrice() float64 {
	return RoundTo(f.float64()*10+1, 2)
}

func (f *RandomFiller) OptimalPrice() float64 {
	return RoundTo(f.float64()*10+2, 2)
}

func (f *RandomFiller) PriceChange() string {
	return FormatPercent(f.float64()*20-10, 1)
}

func (f *RandomFiller) WasteReduction() string {
	return fmt.Sprintf("%d%%", f.intN(25)+10)
}

func (f *RandomFiller) Confidence() int {
	return f.intN(20) + 75
}

// RoundTo rounds v to places decimals.
func RoundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// FormatPercent renders v with a fixed number of decimals and a percent sign.
func FormatPercent(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places) + "%"
}
