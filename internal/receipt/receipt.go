// Package receipt maps statement rows into typed receipts and aggregates them
// into date-ordered groups with withholding-tax summaries.
//
// A Receipt is a tagged union: Kind selects which one of the variant pointers is set.
// Every variant field is optional and nil means the source cell was empty, unparsable
// or missing from a short row.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind identifies the statement type a receipt was imported from.
type Kind string

const (
	KindDividend      Kind = "dividend"
	KindDomesticStock Kind = "domestic_stock"
	KindMutualFund    Kind = "mutual_fund"
)

// ErrUnknownKind is returned by ParseKind for unsupported statement types.
var ErrUnknownKind = errors.New("unknown receipt kind")

// Kinds lists every supported statement type.
func Kinds() []Kind {
	return []Kind{KindDividend, KindDomesticStock, KindMutualFund}
}

// ParseKind validates a kind received from a request path or a stored import log row.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindDividend, KindDomesticStock, KindMutualFund:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

const dateLayout = "2006-01-02"

// Date is a calendar day in UTC. It serializes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}
	d.Time = t
	return nil
}

// Dividend is one row of a dividend statement.
type Dividend struct {
	SettlementDate     *Date   `json:"settlement_date"`
	Product            *string `json:"product"`
	Account            *string `json:"account"`
	SecurityCode       *string `json:"security_code"`
	SecurityName       *string `json:"security_name"`
	Currency           *string `json:"currency"`
	UnitPrice          *string `json:"unit_price"`
	Shares             *int64  `json:"shares"`
	DividendsBeforeTax *int64  `json:"dividends_before_tax"`
	Taxes              *int64  `json:"taxes"`
	NetAmountReceived  *int64  `json:"net_amount_received"`
}

// DomesticStock is one row of a realized profit/loss statement for domestic stock sales.
type DomesticStock struct {
	TradeDate             *Date    `json:"trade_date"`
	SettlementDate        *Date    `json:"settlement_date"`
	SecurityCode          *string  `json:"security_code"`
	SecurityName          *string  `json:"security_name"`
	Account               *string  `json:"account"`
	Shares                *int64   `json:"shares"`
	AskedPrice            *float64 `json:"asked_price"`
	Proceeds              *int64   `json:"proceeds"`
	PurchasePrice         *float64 `json:"purchase_price"`
	RealizedProfitAndLoss *int64   `json:"realized_profit_and_loss"`
}

// MutualFund is one row of a mutual fund settlement statement.
// Tax and ProfitAfterTax are derived from RealizedProfitAndLoss and Account.
type MutualFund struct {
	TradeDate                  *Date    `json:"trade_date"`
	SettlementDate             *Date    `json:"settlement_date"`
	FundName                   *string  `json:"fund_name"`
	Dividends                  *string  `json:"dividends"`
	Account                    *string  `json:"account"`
	Shares                     *int64   `json:"shares"`
	ExchangeRate               *float64 `json:"exchange_rate"`
	CancellationUnitPriceYen   *float64 `json:"cancellation_unit_price_yen"`
	CancellationAmountYen      *int64   `json:"cancellation_amount_yen"`
	AverageAcquisitionPriceYen *float64 `json:"average_acquisition_price_yen"`
	RealizedProfitAndLoss      *int64   `json:"realized_profit_and_loss"`
	Tax                        *int64   `json:"tax"`
	ProfitAfterTax             *int64   `json:"profit_after_tax"`
}

// Receipt is one imported statement row.
type Receipt struct {
	Kind          Kind           `json:"kind"`
	Dividend      *Dividend      `json:"dividend,omitempty"`
	DomesticStock *DomesticStock `json:"domestic_stock,omitempty"`
	MutualFund    *MutualFund    `json:"mutual_fund,omitempty"`
}

// Key returns the aggregation key: the first of the settlement month for dividends,
// the trade date otherwise. It returns nil when the key field is absent.
func (r Receipt) Key() *Date {
	switch {
	case r.Dividend != nil:
		if r.Dividend.SettlementDate == nil {
			return nil
		}
		k := r.Dividend.SettlementDate.FirstOfMonth()
		return &k
	case r.DomesticStock != nil:
		return r.DomesticStock.TradeDate
	case r.MutualFund != nil:
		return r.MutualFund.TradeDate
	}
	return nil
}

// Account returns the account label of whichever variant is set.
func (r Receipt) Account() *string {
	switch {
	case r.Dividend != nil:
		return r.Dividend.Account
	case r.DomesticStock != nil:
		return r.DomesticStock.Account
	case r.MutualFund != nil:
		return r.MutualFund.Account
	}
	return nil
}

// RealizedProfitAndLoss returns the realized profit/loss for stock and fund receipts.
// Dividends have none.
func (r Receipt) RealizedProfitAndLoss() *int64 {
	switch {
	case r.DomesticStock != nil:
		return r.DomesticStock.RealizedProfitAndLoss
	case r.MutualFund != nil:
		return r.MutualFund.RealizedProfitAndLoss
	}
	return nil
}
