// Package reference holds the static lookup tables the settlement engine
// consumes: currency rates, location per-diem standards and expense-item
// classification. The tables are externally maintained and read-only here;
// unmapped keys always resolve to documented defaults, never to errors.
package reference

// Currency is one row of the currency reference table. Rate is the number of
// home-currency units (CNY) per one unit of this currency.
type Currency struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Rate   float64 `json:"rate"`
}

// CurrencyTable resolves currency codes to table rates.
type CurrencyTable struct {
	currencies []Currency
	byCode     map[string]Currency
}

// NewCurrencyTable builds a table from the given rows.
func NewCurrencyTable(currencies []Currency) *CurrencyTable {
	byCode := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}
	return &CurrencyTable{currencies: currencies, byCode: byCode}
}

// BuiltinCurrencies returns the shipped currency table.
func BuiltinCurrencies() *CurrencyTable {
	return NewCurrencyTable([]Currency{
		{Code: "CNY", Name: "人民币", Symbol: "¥", Rate: 1.00},
		{Code: "USD", Name: "美元", Symbol: "$", Rate: 7.23},
		{Code: "EUR", Name: "欧元", Symbol: "€", Rate: 7.85},
		{Code: "GBP", Name: "英镑", Symbol: "£", Rate: 9.12},
		{Code: "JPY", Name: "日元", Symbol: "¥", Rate: 0.048},
		{Code: "HKD", Name: "港币", Symbol: "$", Rate: 0.92},
		{Code: "SGD", Name: "新加坡元", Symbol: "S$", Rate: 5.35},
	})
}

// Rate returns the table rate for a currency code. Unmapped codes fall back
// to 1.0, leaving the foreign amount unchanged.
func (t *CurrencyTable) Rate(code string) float64 {
	if c, ok := t.byCode[code]; ok {
		return c.Rate
	}
	return 1.0
}

// Currencies returns all rows in table order.
func (t *CurrencyTable) Currencies() []Currency {
	return t.currencies
}
