// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MoneySpace Contributors

package space

// DefaultCurrency is assigned to newly created spaces.
const DefaultCurrency = "VND"

// CurrencyInfo describes one supported currency.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// CommonCurrencies lists the currency codes the app knows how to present.
// Codes outside this list are still accepted; presentation falls back to
// the raw code.
var CommonCurrencies = []CurrencyInfo{
	{"VND", "Việt Nam Đồng", "₫"},
	{"USD", "US Dollar", "$"},
	{"EUR", "Euro", "€"},
	{"GBP", "British Pound", "£"},
	{"JPY", "Japanese Yen", "¥"},
	{"KRW", "Korean Won", "₩"},
	{"CNY", "Chinese Yuan", "¥"},
	{"THB", "Thai Baht", "฿"},
	{"SGD", "Singapore Dollar", "S$"},
	{"AUD", "Australian Dollar", "A$"},
	{"CAD", "Canadian Dollar", "C$"},
}

// CurrencySymbol returns the display symbol for a code, falling back to
// the code itself when unknown.
func CurrencySymbol(code string) string {
	for _, c := range CommonCurrencies {
		if c.Code == code {
			return c.Symbol
		}
	}
	return code
}
