package receipt

import (
	"slices"
)

// DividendSummary totals a set of dividend receipts.
type DividendSummary struct {
	TotalDividendsBeforeTax int64 `json:"total_dividends_before_tax"`
	TotalTaxes              int64 `json:"total_taxes"`
	TotalNetAmountReceived  int64 `json:"total_net_amount_received"`
}

// ProfitSummary totals realized profit and loss for stock or fund receipts.
// SpecificRealizedProfitAndLoss is the part of the total from taxable accounts;
// WithholdingTax is always derived from it.
type ProfitSummary struct {
	TotalRealizedProfitAndLoss         int64 `json:"total_realized_profit_and_loss"`
	SpecificRealizedProfitAndLoss      int64 `json:"specific_realized_profit_and_loss"`
	WithholdingTax                     int64 `json:"withholding_tax"`
	TotalRealizedProfitAndLossAfterTax int64 `json:"total_realized_profit_and_loss_after_tax"`
}

// Summary is the reduction of a set of receipts of one kind.
type Summary struct {
	Kind     Kind             `json:"kind"`
	Dividend *DividendSummary `json:"dividend,omitempty"`
	Profit   *ProfitSummary   `json:"profit,omitempty"`
}

func emptySummary(kind Kind) Summary {
	if kind == KindDividend {
		return Summary{Kind: kind, Dividend: &DividendSummary{}}
	}
	return Summary{Kind: kind, Profit: &ProfitSummary{}}
}

func (p *ProfitSummary) settle() {
	p.WithholdingTax = WithholdingTax(p.SpecificRealizedProfitAndLoss)
	p.TotalRealizedProfitAndLossAfterTax = p.TotalRealizedProfitAndLoss - p.WithholdingTax
}

// Summarize reduces receipts of the given kind. Absent fields contribute nothing,
// so a set where every member lacks a field sums to zero for it.
// Receipts of another kind are ignored.
func Summarize(kind Kind, receipts []Receipt) Summary {
	s := emptySummary(kind)

	for _, r := range receipts {
		if r.Kind != kind {
			continue
		}
		if s.Dividend != nil && r.Dividend != nil {
			d := r.Dividend
			s.Dividend.TotalDividendsBeforeTax += deref(d.DividendsBeforeTax)
			s.Dividend.TotalTaxes += deref(d.Taxes)
			s.Dividend.TotalNetAmountReceived += deref(d.NetAmountReceived)
			continue
		}
		if s.Profit != nil {
			pl := r.RealizedProfitAndLoss()
			if pl == nil {
				continue
			}
			s.Profit.TotalRealizedProfitAndLoss += *pl
			if IsTaxable(r.Account()) {
				s.Profit.SpecificRealizedProfitAndLoss += *pl
			}
		}
	}

	if s.Profit != nil {
		s.Profit.settle()
	}
	return s
}

// Combine reduces per-group summaries into one. Tax is recomputed from the combined
// taxable total, so Combine over groups equals Summarize over all their receipts.
func Combine(kind Kind, summaries ...Summary) Summary {
	s := emptySummary(kind)

	for _, in := range summaries {
		if in.Kind != kind {
			continue
		}
		if s.Dividend != nil && in.Dividend != nil {
			s.Dividend.TotalDividendsBeforeTax += in.Dividend.TotalDividendsBeforeTax
			s.Dividend.TotalTaxes += in.Dividend.TotalTaxes
			s.Dividend.TotalNetAmountReceived += in.Dividend.TotalNetAmountReceived
		}
		if s.Profit != nil && in.Profit != nil {
			s.Profit.TotalRealizedProfitAndLoss += in.Profit.TotalRealizedProfitAndLoss
			s.Profit.SpecificRealizedProfitAndLoss += in.Profit.SpecificRealizedProfitAndLoss
		}
	}

	if s.Profit != nil {
		s.Profit.settle()
	}
	return s
}

// Group holds the receipts that share one aggregation key.
type Group struct {
	Key      Date      `json:"key"`
	Receipts []Receipt `json:"receipts"`
	Summary  Summary   `json:"summary"`
}

// Grouping is the ordered aggregation of one import.
type Grouping struct {
	Kind    Kind    `json:"kind"`
	Groups  []Group `json:"groups"`
	Total   Summary `json:"total"`
	Dropped int     `json:"dropped"`
}

// GroupAndSummarize groups receipts by aggregation key in ascending key order.
// Members keep their input order. Receipts without a key are dropped and counted.
func GroupAndSummarize(kind Kind, receipts []Receipt) Grouping {
	byKey := make(map[Date][]Receipt)
	dropped := 0

	for _, r := range receipts {
		k := r.Key()
		if k == nil {
			dropped++
			continue
		}
		byKey[*k] = append(byKey[*k], r)
	}

	keys := make([]Date, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Date) int {
		return a.Compare(b.Time)
	})

	groups := make([]Group, 0, len(keys))
	summaries := make([]Summary, 0, len(keys))
	for _, k := range keys {
		summary := Summarize(kind, byKey[k])
		groups = append(groups, Group{Key: k, Receipts: byKey[k], Summary: summary})
		summaries = append(summaries, summary)
	}

	return Grouping{
		Kind:    kind,
		Groups:  groups,
		Total:   Combine(kind, summaries...),
		Dropped: dropped,
	}
}

// Len returns the number of receipts across all groups.
func (g Grouping) Len() int {
	n := 0
	for _, grp := range g.Groups {
		n += len(grp.Receipts)
	}
	return n
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
