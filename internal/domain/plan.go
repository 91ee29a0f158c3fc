package domain

// Plan gates tenant features.
type Plan struct {
	ID                 string
	Name               string
	MaxKanbanColumns   int
	CanCustomizeKanban bool
}

// Client is a tenant subscribed to a plan.
type Client struct {
	ID     string
	Name   string
	PlanID string
}
