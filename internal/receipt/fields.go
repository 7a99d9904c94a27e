package receipt

import "strconv"

// Field is one named raw value of a receipt or summary, in display column order.
// Value is unformatted: dates are YYYY-MM-DD, numbers carry no grouping separators
// and absent fields are empty.
type Field struct {
	Key   string
	Value string
}

func dateValue(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func numericText(s *string) string {
	if s == nil {
		return ""
	}
	return StripCommas(*s)
}

func intValue(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func floatValue(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// Fields lists the receipt's columns in statement order.
func (r Receipt) Fields() []Field {
	switch {
	case r.Dividend != nil:
		d := r.Dividend
		return []Field{
			{"settlement_date", dateValue(d.SettlementDate)},
			{"product", stringValue(d.Product)},
			{"account", stringValue(d.Account)},
			{"security_code", stringValue(d.SecurityCode)},
			{"security_name", stringValue(d.SecurityName)},
			{"currency", stringValue(d.Currency)},
			{"unit_price", numericText(d.UnitPrice)},
			{"shares", intValue(d.Shares)},
			{"dividends_before_tax", intValue(d.DividendsBeforeTax)},
			{"taxes", intValue(d.Taxes)},
			{"net_amount_received", intValue(d.NetAmountReceived)},
		}
	case r.DomesticStock != nil:
		s := r.DomesticStock
		return []Field{
			{"trade_date", dateValue(s.TradeDate)},
			{"settlement_date", dateValue(s.SettlementDate)},
			{"security_code", stringValue(s.SecurityCode)},
			{"security_name", stringValue(s.SecurityName)},
			{"account", stringValue(s.Account)},
			{"shares", intValue(s.Shares)},
			{"asked_price", floatValue(s.AskedPrice)},
			{"proceeds", intValue(s.Proceeds)},
			{"purchase_price", floatValue(s.PurchasePrice)},
			{"realized_profit_and_loss", intValue(s.RealizedProfitAndLoss)},
		}
	case r.MutualFund != nil:
		m := r.MutualFund
		return []Field{
			{"trade_date", dateValue(m.TradeDate)},
			{"settlement_date", dateValue(m.SettlementDate)},
			{"fund_name", stringValue(m.FundName)},
			{"dividends", stringValue(m.Dividends)},
			{"account", stringValue(m.Account)},
			{"shares", intValue(m.Shares)},
			{"exchange_rate", floatValue(m.ExchangeRate)},
			{"cancellation_unit_price_yen", floatValue(m.CancellationUnitPriceYen)},
			{"cancellation_amount_yen", intValue(m.CancellationAmountYen)},
			{"average_acquisition_price_yen", floatValue(m.AverageAcquisitionPriceYen)},
			{"realized_profit_and_loss", intValue(m.RealizedProfitAndLoss)},
			{"tax", intValue(m.Tax)},
			{"profit_after_tax", intValue(m.ProfitAfterTax)},
		}
	}
	return nil
}

// Fields lists the summary totals in display order.
func (s Summary) Fields() []Field {
	switch {
	case s.Dividend != nil:
		return []Field{
			{"total_dividends_before_tax", strconv.FormatInt(s.Dividend.TotalDividendsBeforeTax, 10)},
			{"total_taxes", strconv.FormatInt(s.Dividend.TotalTaxes, 10)},
			{"total_net_amount_received", strconv.FormatInt(s.Dividend.TotalNetAmountReceived, 10)},
		}
	case s.Profit != nil:
		return []Field{
			{"total_realized_profit_and_loss", strconv.FormatInt(s.Profit.TotalRealizedProfitAndLoss, 10)},
			{"withholding_tax", strconv.FormatInt(s.Profit.WithholdingTax, 10)},
			{"total_realized_profit_and_loss_after_tax", strconv.FormatInt(s.Profit.TotalRealizedProfitAndLossAfterTax, 10)},
		}
	}
	return nil
}
