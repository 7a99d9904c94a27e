package format

import (
	"strconv"
	"testing"

	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234567", "1,234,567"},
		{"-1234567", "-1,234,567"},
		{"1234.56", "1,234.56"},
		{"123", "123"},
		{"1000", "1,000"},
		{"100000", "100,000"},
		{"0.5", "0.5"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatNumber(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatNumber_RoundTrip(t *testing.T) {
	for _, n := range []int64{0, 7, -7, 999, 1000, -1000, 123456, 1234567, -98765432, 9223372036854775807} {
		once := FormatNumber(strconv.FormatInt(n, 10))
		twice := FormatNumber(StripCommas(once))
		if once != twice {
			t.Errorf("Expected %q to survive a round trip, got %q", once, twice)
		}
	}
}

func TestFormatYen(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000", "¥ 1,000"},
		{"-1000", "¥ -1,000"},
		{"1500.5", "¥ 1,500.5"},
		{"", ""},
		{"-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatYen(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2023-12-31"); got != "2023/12/31" {
		t.Errorf("Expected '2023/12/31', got %q", got)
	}
	if got := FormatDate("2020-01-01"); got != "2020/01/01" {
		t.Errorf("Expected '2020/01/01', got %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		key   string
		value string
		want  string
	}{
		{"proceeds", "150000", "¥ 150,000"},
		{"realized_profit_and_loss", "", ""},
		{"shares", "1000", "1,000"},
		{"trade_date", "2024-03-15", "2024/03/15"},
		{"security_name", "極洋", "極洋"},
		{"security_code", "1301", "1301"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := FormatValue(tt.key, tt.value); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestHeaderLabel(t *testing.T) {
	if got := HeaderLabel("trade_date"); got != "約定日" {
		t.Errorf("Expected '約定日', got %q", got)
	}
	if got := HeaderLabel("unknown_key"); got != "unknown_key" {
		t.Errorf("Expected key fallback, got %q", got)
	}
}

func TestCells(t *testing.T) {
	row := []string{"2024/03/15", "2024/03/18", "1301", "極洋", "特定", "", "", "100", "1500.0", "150000", "1200.0", ""}
	r, _ := receipt.FromRow(receipt.KindDomesticStock, row, nil)

	cells := Cells(r.Fields())

	byKey := make(map[string]Cell, len(cells))
	for _, c := range cells {
		byKey[c.Key] = c
	}

	if cells[0].Key != "trade_date" || cells[0].Value != "2024/03/15" || cells[0].Label != "約定日" {
		t.Errorf("Unexpected first cell: %+v", cells[0])
	}
	if byKey["proceeds"].Value != "¥ 150,000" {
		t.Errorf("Expected '¥ 150,000', got %q", byKey["proceeds"].Value)
	}
	if byKey["asked_price"].Value != "¥ 1,500" {
		t.Errorf("Expected '¥ 1,500', got %q", byKey["asked_price"].Value)
	}
	if byKey["realized_profit_and_loss"].Value != "" {
		t.Errorf("Expected absent profit to format as empty, got %q", byKey["realized_profit_and_loss"].Value)
	}

	summary := receipt.Summarize(receipt.KindDomesticStock, []receipt.Receipt{r})
	totals := Cells(summary.Fields())
	if totals[0].Value != "¥ 0" {
		t.Errorf("Expected zero total to format as '¥ 0', got %q", totals[0].Value)
	}
}

func TestCells_MutualFund(t *testing.T) {
	row := []string{"2024/02/01", "2024/02/05", "eMAXIS Slim", "", "特定", "", "10,000", "147.25", "20,000", "200,000", "18000.5", "30000"}
	r, errs := receipt.FromRow(receipt.KindMutualFund, row, nil)
	if len(errs) != 0 {
		t.Fatalf("Expected no field errors, got %v", errs)
	}

	byKey := make(map[string]Cell)
	for _, c := range Cells(r.Fields()) {
		byKey[c.Key] = c
	}

	tests := map[string]string{
		"shares":                      "10,000",
		"exchange_rate":               "147.25",
		"cancellation_unit_price_yen": "¥ 20,000",
		"cancellation_amount_yen":     "¥ 200,000",
		"tax":                         "¥ 6,094",
	}
	for key, want := range tests {
		if got := byKey[key].Value; got != want {
			t.Errorf("Expected %s to be %q, got %q", key, want, got)
		}
	}
}
