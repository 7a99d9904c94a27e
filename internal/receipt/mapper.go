package receipt

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/shoken-receipts-backend/internal/logger"
)

// Rows mapped between context checks.
const mapCheckInterval = 256

// Statement dates are YYYY/MM/DD; the short layout also accepts unpadded month and day.
const statementDateLayout = "2006/1/2"

// FieldError describes a cell that could not be converted to its field type.
// The field is stored as absent and the row is kept.
type FieldError struct {
	Column int    `json:"column"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Err    string `json:"error"`
}

// rowReader extracts positional cells from one row and records per-field failures.
type rowReader struct {
	kind Kind
	row  []string
	log  *logger.Logger
	errs []FieldError
}

func (rr *rowReader) cell(i int) (string, bool) {
	if i >= len(rr.row) {
		return "", false
	}
	return rr.row[i], true
}

func (rr *rowReader) fail(i int, field, value string, err error) {
	rr.errs = append(rr.errs, FieldError{Column: i, Field: field, Value: value, Err: err.Error()})
	rr.log.Warnw("failed to parse statement field",
		"kind", rr.kind,
		"column", i,
		"field", field,
		"value", value,
		"error", err,
	)
}

func (rr *rowReader) str(i int) *string {
	v, ok := rr.cell(i)
	if !ok {
		return nil
	}
	return &v
}

func (rr *rowReader) date(i int, field string) *Date {
	v, ok := rr.cell(i)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return nil
	}
	t, err := time.Parse(statementDateLayout, v)
	if err != nil {
		rr.fail(i, field, v, err)
		return nil
	}
	d := NewDate(t.Year(), t.Month(), t.Day())
	return &d
}

func (rr *rowReader) int(i int, field string) *int64 {
	v, ok := rr.cell(i)
	v = StripCommas(v)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		rr.fail(i, field, v, err)
		return nil
	}
	return &n
}

func (rr *rowReader) float(i int, field string) *float64 {
	v, ok := rr.cell(i)
	v = StripCommas(v)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		rr.fail(i, field, v, err)
		return nil
	}
	return &f
}

// StripCommas trims s and removes grouping separators.
func StripCommas(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// FromRow maps one statement row into a receipt of the given kind.
// Each field is parsed independently: a bad cell is logged, reported in the
// returned slice and stored as absent while the rest of the row is kept.
func FromRow(kind Kind, row []string, log *logger.Logger) (Receipt, []FieldError) {
	if log == nil {
		log = logger.Nop()
	}
	rr := &rowReader{kind: kind, row: row, log: log}

	r := Receipt{Kind: kind}
	switch kind {
	case KindDividend:
		r.Dividend = &Dividend{
			SettlementDate:     rr.date(0, "settlement_date"),
			Product:            rr.str(1),
			Account:            rr.str(2),
			SecurityCode:       rr.str(3),
			SecurityName:       rr.str(4),
			Currency:           rr.str(5),
			UnitPrice:          rr.str(6),
			Shares:             rr.int(7, "shares"),
			DividendsBeforeTax: rr.int(8, "dividends_before_tax"),
			Taxes:              rr.int(9, "taxes"),
			NetAmountReceived:  rr.int(10, "net_amount_received"),
		}
	case KindDomesticStock:
		r.DomesticStock = &DomesticStock{
			TradeDate:             rr.date(0, "trade_date"),
			SettlementDate:        rr.date(1, "settlement_date"),
			SecurityCode:          rr.str(2),
			SecurityName:          rr.str(3),
			Account:               rr.str(4),
			Shares:                rr.int(7, "shares"),
			AskedPrice:            rr.float(8, "asked_price"),
			Proceeds:              rr.int(9, "proceeds"),
			PurchasePrice:         rr.float(10, "purchase_price"),
			RealizedProfitAndLoss: rr.int(11, "realized_profit_and_loss"),
		}
	case KindMutualFund:
		mf := &MutualFund{
			TradeDate:                  rr.date(0, "trade_date"),
			SettlementDate:             rr.date(1, "settlement_date"),
			FundName:                   rr.str(2),
			Dividends:                  rr.str(3),
			Account:                    rr.str(4),
			Shares:                     rr.int(6, "shares"),
			ExchangeRate:               rr.float(7, "exchange_rate"),
			CancellationUnitPriceYen:   rr.float(8, "cancellation_unit_price_yen"),
			CancellationAmountYen:      rr.int(9, "cancellation_amount_yen"),
			AverageAcquisitionPriceYen: rr.float(10, "average_acquisition_price_yen"),
			RealizedProfitAndLoss:      rr.int(11, "realized_profit_and_loss"),
		}
		mf.Tax, mf.ProfitAfterTax = fundTax(mf.RealizedProfitAndLoss, mf.Account)
		r.MutualFund = mf
	}

	return r, rr.errs
}

// MapRows maps every row and returns the receipts with the total number of field errors.
// Field warnings carry the zero-based data row index. ctx is checked every
// mapCheckInterval rows and its error is returned once it is done.
func MapRows(ctx context.Context, kind Kind, rows [][]string, log *logger.Logger) ([]Receipt, int, error) {
	if log == nil {
		log = logger.Nop()
	}

	receipts := make([]Receipt, 0, len(rows))
	fieldErrors := 0
	for i, row := range rows {
		if i%mapCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		r, errs := FromRow(kind, row, log.WithFields(map[string]any{"row": i}))
		fieldErrors += len(errs)
		receipts = append(receipts, r)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return receipts, fieldErrors, nil
}

// fundTax derives the per-row tax and after-tax profit for a mutual fund settlement.
func fundTax(profit *int64, account *string) (*int64, *int64) {
	if profit == nil {
		return nil, nil
	}
	var tax int64
	if *profit > 0 && IsTaxable(account) {
		tax = WithholdingTax(*profit)
	}
	after := *profit - tax
	return &tax, &after
}
