package price

// Range диапазон множителя цены, например 0.8..1.2.
type Range struct {
	Min float64
	Max float64
}

// Adjustment поднимает цену до справочной, если рыночная упала слишком низко.
type Adjustment struct {
	Enabled bool
	// MaxBelowHandbookPercent на сколько процентов справочная цена может
	// превышать рыночную, прежде чем сработает подъём.
	MaxBelowHandbookPercent float64
	HandbookMultiplier      float64
	// PriceThreshold подъём применяется только к ценам выше порога.
	PriceThreshold float64
}

type Config struct {
	Adjustment             Adjustment
	UseTraderPriceIfHigher bool
	// ItemPriceMultiplier ручной множитель цены по шаблону.
	ItemPriceMultiplier map[string]float64

	DefaultRange Range
	PresetRange  Range
	PackRange    Range
}

func DefaultConfig() Config {
	return Config{
		Adjustment: Adjustment{
			Enabled:                 true,
			MaxBelowHandbookPercent: 64,
			HandbookMultiplier:      1.1,
			PriceThreshold:          1000,
		},
		DefaultRange: Range{Min: 0.8, Max: 1.2},
		PresetRange:  Range{Min: 0.85, Max: 1.15},
		PackRange:    Range{Min: 0.9, Max: 1.1},
	}
}
