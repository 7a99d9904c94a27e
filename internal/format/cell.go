package format

import "github.com/ndewijer/shoken-receipts-backend/internal/receipt"

// Cell is one formatted column ready for display.
type Cell struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Cells formats an ordered list of receipt or summary fields.
func Cells(fields []receipt.Field) []Cell {
	cells := make([]Cell, len(fields))
	for i, f := range fields {
		cells[i] = Cell{
			Key:   f.Key,
			Label: HeaderLabel(f.Key),
			Value: FormatValue(f.Key, f.Value),
		}
	}
	return cells
}
