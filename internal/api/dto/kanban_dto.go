package dto

// KanbanColumnRequest is one column of a replace. Order is required.
type KanbanColumnRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Order *int   `json:"order"`
}

// ReplaceKanbanConfigRequest carries the complete column set.
type ReplaceKanbanConfigRequest struct {
	Columns []KanbanColumnRequest `json:"columns"`
}

// MoveColumnRequest payload.
type MoveColumnRequest struct {
	Direction string `json:"direction"`
}

// KanbanColumnResponse renders a column.
type KanbanColumnResponse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// KanbanConfigResponse renders a board. ID is empty for the unsaved default.
type KanbanConfigResponse struct {
	ID        string                 `json:"id,omitempty"`
	ClientID  string                 `json:"clientId"`
	Persisted bool                   `json:"persisted"`
	Columns   []KanbanColumnResponse `json:"columns"`
}

// PlanResponse renders a plan.
type PlanResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	MaxKanbanColumns   int    `json:"maxKanbanColumns"`
	CanCustomizeKanban bool   `json:"canCustomizeKanban"`
}
