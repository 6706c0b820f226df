// Package core holds the domain model of the ledger: transactions, category
// limits, savings goals, the fixed currency table, period bucketing and the
// aggregation functions over collection snapshots. Everything here is pure;
// persistence and transport live elsewhere.
package core

// Currency describes one entry of the fixed conversion table. Rate is the
// number of display units per one canonical unit (EUR), so
//
//	display   = canonical * Rate
//	canonical = display / Rate
//
// Rates are fixed at compile time; there is no live FX lookup.
type Currency struct {
	Code   string  `json:"code"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

var (
	EUR = Currency{Code: "EUR", Symbol: "€", Rate: 1.0}
	USD = Currency{Code: "USD", Symbol: "$", Rate: 1.05}
	RUB = Currency{Code: "RUB", Symbol: "₽", Rate: 105.0}
	GBP = Currency{Code: "GBP", Symbol: "£", Rate: 0.85}
)

// CanonicalCurrency is the unit every amount is persisted in.
var CanonicalCurrency = EUR

var currencies = []Currency{EUR, USD, RUB, GBP}

// Currencies returns the supported currency table in a stable order.
func Currencies() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// CurrencyByCode resolves a currency code. Unknown codes fall back to the
// canonical currency, which has the identity rate.
func CurrencyByCode(code string) Currency {
	for _, c := range currencies {
		if c.Code == code {
			return c
		}
	}
	return CanonicalCurrency
}

// KnownCurrency reports whether code names an entry of the table.
func KnownCurrency(code string) bool {
	for _, c := range currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}

// ToDisplay converts a canonical amount into this currency.
func (c Currency) ToDisplay(canonical float64) float64 {
	return canonical * c.Rate
}

// ToCanonical converts a user-entered amount in this currency back to the
// canonical unit for storage.
func (c Currency) ToCanonical(display float64) float64 {
	return display / c.Rate
}
