package format

// headers maps field keys to the column labels used on brokerage statements.
var headers = map[string]string{
	"trade_date":                     "約定日",
	"settlement_date":                "受渡日",
	"security_code":                  "銘柄コード",
	"security_name":                  "銘柄名",
	"account":                        "口座",
	"shares":                         "数量[株]",
	"asked_price":                    "売却/決済単価",
	"proceeds":                       "売却/決済額",
	"purchase_price":                 "平均取得価額",
	"realized_profit_and_loss":       "実現損益",
	"total_realized_profit_and_loss": "合計実現損益",
	"withholding_tax":                "合計税額",
	"total_realized_profit_and_loss_after_tax": "税引後実現損益",
	"profit_and_loss":                          "合計実現損益",
	"product":                                  "商品",
	"currency":                                 "受取通貨",
	"unit_price":                               "単価",
	"dividends_before_tax":                     "配当・分配金",
	"taxes":                                    "税額",
	"net_amount_received":                      "受取金額",
	"total_dividends_before_tax":               "合計配当・分配金",
	"total_taxes":                              "合計税額",
	"total_net_amount_received":                "合計受取金額",
	"fund_name":                                "ファンド名",
	"dividends":                                "分配金",
	"exchange_rate":                            "為替レート",
	"cancellation_unit_price_yen":              "解約単価[円]",
	"cancellation_amount_yen":                  "解約金額[円]",
	"average_acquisition_price_yen":            "平均取得価額[円]",
	"tax":                                      "税額",
	"profit_after_tax":                         "税引後損益",
}

// HeaderLabel returns the display label for key, or key itself when none is defined.
func HeaderLabel(key string) string {
	if label, ok := headers[key]; ok {
		return label
	}
	return key
}
