package service

import (
	"github.com/ndewijer/shoken-receipts-backend/internal/format"
	"github.com/ndewijer/shoken-receipts-backend/internal/receipt"
)

// DisplayGroup is one aggregation group rendered for display.
type DisplayGroup struct {
	Key     string          `json:"key"`
	Rows    [][]format.Cell `json:"rows"`
	Summary []format.Cell   `json:"summary"`
}

// DisplayResult is an import result with every value formatted and labelled.
type DisplayResult struct {
	ImportID string         `json:"importId"`
	Kind     receipt.Kind   `json:"kind"`
	FileName string         `json:"fileName"`
	Groups   []DisplayGroup `json:"groups"`
	Total    []format.Cell  `json:"total"`
	Dropped  int            `json:"dropped"`
}

// Display renders an import result into formatted cells.
func Display(result *ImportResult) DisplayResult {
	groups := make([]DisplayGroup, len(result.Grouping.Groups))
	for i, g := range result.Grouping.Groups {
		rows := make([][]format.Cell, len(g.Receipts))
		for j, r := range g.Receipts {
			rows[j] = format.Cells(r.Fields())
		}
		groups[i] = DisplayGroup{
			Key:     format.FormatDate(g.Key.String()),
			Rows:    rows,
			Summary: format.Cells(g.Summary.Fields()),
		}
	}

	return DisplayResult{
		ImportID: result.ImportID,
		Kind:     result.Kind,
		FileName: result.FileName,
		Groups:   groups,
		Total:    format.Cells(result.Grouping.Total.Fields()),
		Dropped:  result.Grouping.Dropped,
	}
}
