package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxRate is the combined withholding rate on realized gains in a taxable account.
const TaxRate = 0.20315

// TaxableAccountMarker is the substring that identifies a standard taxable account label.
const TaxableAccountMarker = "特定"

var taxRate = decimal.NewFromFloat(TaxRate)

// IsTaxable reports whether the account label marks a taxable account.
// A missing label is treated as non-taxable.
func IsTaxable(account *string) bool {
	return account != nil && strings.Contains(*account, TaxableAccountMarker)
}

// WithholdingTax returns floor(max(amount, 0) * TaxRate).
func WithholdingTax(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).Mul(taxRate).Floor().IntPart()
}
