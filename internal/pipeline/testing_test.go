package pipeline

// fixedFiller returns the same placeholder values on every call.
type fixedFiller struct{}

func (fixedFiller) CurrentPrice() float64  { return 5.25 }
func (fixedFiller) OptimalPrice() float64  { return 7.5 }
func (fixedFiller) PriceChange() string    { return "1.5%" }
func (fixedFiller) WasteReduction() string { return "20%" }
func (fixedFiller) Confidence() int        { return 80 }
