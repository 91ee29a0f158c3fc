package domain

import (
	"errors"
	"fmt"
	"sort"
)

// KanbanColumn is one pipeline stage. Order is 0-based and dense within its config.
type KanbanColumn struct {
	ID       string
	ConfigID string
	Name     string
	Color    string
	Order    int
}

// KanbanConfig is the ordered column set of one client. An empty ID marks
// the synthesized default that has not been persisted.
type KanbanConfig struct {
	ID       string
	ClientID string
	Columns  []KanbanColumn
}

// Persisted reports whether the config exists in the store.
func (c *KanbanConfig) Persisted() bool {
	return c.ID != ""
}

// DefaultKanbanColumns returns the pipeline offered before a client saves its own.
func DefaultKanbanColumns() []KanbanColumn {
	return []KanbanColumn{
		{Name: "Novos Leads", Color: "#3B82F6", Order: 0},
		{Name: "Em Contato", Color: "#EAB308", Order: 1},
		{Name: "Qualificados", Color: "#22C55E", Order: 2},
	}
}

// DefaultKanbanConfig builds the non-persisted default config for clientID.
func DefaultKanbanConfig(clientID string) *KanbanConfig {
	return &KanbanConfig{ClientID: clientID, Columns: DefaultKanbanColumns()}
}

// Move directions for SwapAdjacent.
const (
	MoveUp   = "up"
	MoveDown = "down"
)

var (
	ErrColumnOrderInvalid = errors.New("column order must be a permutation of 0..N-1")
	ErrColumnMoveOutside  = errors.New("column cannot move past the board edge")
)

// ValidateColumnOrder checks that the Order values form exactly 0..N-1.
// Orders are taken verbatim; nothing is renumbered here.
func ValidateColumnOrder(columns []KanbanColumn) error {
	seen := make([]bool, len(columns))
	for _, column := range columns {
		if column.Order < 0 || column.Order >= len(columns) {
			return fmt.Errorf("%w: order %d out of range", ErrColumnOrderInvalid, column.Order)
		}
		if seen[column.Order] {
			return fmt.Errorf("%w: order %d repeated", ErrColumnOrderInvalid, column.Order)
		}
		seen[column.Order] = true
	}
	return nil
}

// SortColumns orders columns by their Order value in place.
func SortColumns(columns []KanbanColumn) {
	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].Order < columns[j].Order
	})
}

// SwapAdjacent exchanges the Order of the column at index with its neighbour
// in direction and swaps their positions. Other columns keep their Order.
// columns must be sorted by Order.
func SwapAdjacent(columns []KanbanColumn, index int, direction string) error {
	var target int
	switch direction {
	case MoveUp:
		target = index - 1
	case MoveDown:
		target = index + 1
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
	if index < 0 || index >= len(columns) || target < 0 || target >= len(columns) {
		return ErrColumnMoveOutside
	}
	columns[index].Order, columns[target].Order = columns[target].Order, columns[index].Order
	columns[index], columns[target] = columns[target], columns[index]
	return nil
}
