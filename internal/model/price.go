package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const currencySymbol = "₦"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an amount the way the storefront shows it, e.g. "₦5,000".
func FormatPrice(amount int) string {
	return pricePrinter.Sprintf("%s%d", currencySymbol, amount)
}
