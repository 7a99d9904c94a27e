// Package format renders raw receipt values as display strings.
package format

import (
	"strings"

	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
)

// NumberKeys are fields shown as grouped numbers.
var NumberKeys = keySet("shares")

// YenKeys are fields shown as grouped numbers with a yen prefix.
var YenKeys = keySet(
	"asked_price",
	"average_acquisition_price_yen",
	"cancellation_amount_yen",
	"cancellation_unit_price_yen",
	"dividends_before_tax",
	"net_amount_received",
	"proceeds",
	"profit_after_tax",
	"profit_and_loss",
	"purchase_price",
	"realized_profit_and_loss",
	"tax",
	"taxes",
	"total_dividends_before_tax",
	"total_net_amount_received",
	"total_realized_profit_and_loss",
	"total_realized_profit_and_loss_after_tax",
	"total_taxes",
	"unit_price",
	"withholding_tax",
)

// DateKeys are fields shown with slash separators.
var DateKeys = keySet("settlement_date", "trade_date")

func keySet(keys ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return m
}

// FormatNumber groups the integer digits of s by three with commas.
// A leading minus sign and a decimal tail are kept as they are; empty input stays empty.
func FormatNumber(s string) string {
	sign := ""
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		sign, s = "-", rest
	}

	head, fraction, hasFraction := strings.Cut(s, ".")
	integer := []rune(head)

	var b strings.Builder
	b.WriteString(sign)
	for i, c := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if hasFraction {
		b.WriteByte('.')
		b.WriteString(fraction)
	}
	return b.String()
}

// FormatYen renders s as a yen amount. Empty input and a lone "-" are returned unchanged.
func FormatYen(s string) string {
	if s == "" || s == "-" {
		return s
	}
	return "¥ " + FormatNumber(s)
}

// FormatDate converts YYYY-MM-DD into YYYY/MM/DD.
func FormatDate(s string) string {
	return strings.ReplaceAll(s, "-", "/")
}

// StripCommas removes grouping separators.
func StripCommas(s string) string {
	return receipt.StripCommas(s)
}

// FormatValue formats value according to the key's display category.
// Keys outside every category are returned unchanged.
func FormatValue(key, value string) string {
	if _, ok := YenKeys[key]; ok {
		return FormatYen(value)
	}
	if _, ok := NumberKeys[key]; ok {
		return FormatNumber(value)
	}
	if _, ok := DateKeys[key]; ok {
		return FormatDate(value)
	}
	return value
}
