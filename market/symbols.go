// market/symbols.go
package market

// SymbolMeta describes a tradable instrument and the parameters the
// synthetic feed uses to generate quotes for it.
type SymbolMeta struct {
	Symbol     string
	Name       string
	Kind       string // "forex", "commodity", "crypto"
	BasePrice  float64
	Volatility float64 // max per-quote perturbation, in price units
	HalfSpread float64
}

// Symbols is the built-in instrument table for the demo feed.
var Symbols = map[string]SymbolMeta{
	"EUR/USD": {
		Symbol:     "EUR/USD",
		Name:       "Euro vs US Dollar",
		Kind:       "forex",
		BasePrice:  1.0854,
		Volatility: 0.0002,
		HalfSpread: 0.0001,
	},
	"GBP/USD": {
		Symbol:     "GBP/USD",
		Name:       "British Pound vs US Dollar",
		Kind:       "forex",
		BasePrice:  1.2658,
		Volatility: 0.0003,
		HalfSpread: 0.0001,
	},
	"USD/JPY": {
		Symbol:     "USD/JPY",
		Name:       "US Dollar vs Japanese Yen",
		Kind:       "forex",
		BasePrice:  151.25,
		Volatility: 0.05,
		HalfSpread: 0.01,
	},
	"Gold": {
		Symbol:     "Gold",
		Name:       "Gold",
		Kind:       "commodity",
		BasePrice:  2185.40,
		Volatility: 1.2,
		HalfSpread: 0.3,
	},
	"BTC/USD": {
		Symbol:     "BTC/USD",
		Name:       "Bitcoin",
		Kind:       "crypto",
		BasePrice:  61520,
		Volatility: 150,
		HalfSpread: 25,
	},
}
