package dto

import "time"

// BuildReport contains the complete output of a build run
type BuildReport struct {
	RunID       string           `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Summary     []SummaryRow     `json:"summary" yaml:"summary"`
	Leftover    []LeftoverRow    `json:"leftover" yaml:"leftover"`
	Consumption []ConsumptionRow `json:"consumption" yaml:"consumption"`
	Totals      Totals           `json:"totals" yaml:"totals"`
}

// SummaryRow is one build target with its pricing. Money fields are
// rendered to cents; Margin and Markup are empty when undefined.
type SummaryRow struct {
	TargetID  string `json:"target_id" yaml:"target_id"`
	Buildable int64  `json:"buildable" yaml:"buildable"`
	TotalCost string `json:"total_cost" yaml:"total_cost"`
	AvgCost   string `json:"avg_cost" yaml:"avg_cost"`
	Limiting  string `json:"limiting,omitempty" yaml:"limiting,omitempty"`
	Price     string `json:"price" yaml:"price"`
	Profit    string `json:"profit" yaml:"profit"`
	Margin    string `json:"margin" yaml:"margin"`
	Markup    string `json:"markup" yaml:"markup"`
}

// LeftoverRow is stock remaining after the run
type LeftoverRow struct {
	ItemID      string `json:"item_id" yaml:"item_id"`
	ItemType    string `json:"item_type" yaml:"item_type"`
	Description string `json:"description" yaml:"description"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Quantity    int64  `json:"qty" yaml:"qty"`
	TotalCost   string `json:"total_cost" yaml:"total_cost"`
	UnitCost    string `json:"unit_cost" yaml:"unit_cost"`
}

// ConsumptionRow is what the run drew from one stock key
type ConsumptionRow struct {
	Key      string   `json:"key" yaml:"key"`
	Quantity int64    `json:"qty" yaml:"qty"`
	Cost     string   `json:"cost" yaml:"cost"`
	Targets  []string `json:"targets" yaml:"targets"`
}

// Totals aggregates the run
type Totals struct {
	Targets       int    `json:"targets" yaml:"targets"`
	Buildable     int64  `json:"buildable" yaml:"buildable"`
	BuildCost     string `json:"build_cost" yaml:"build_cost"`
	LeftoverLots  int    `json:"leftover_lots" yaml:"leftover_lots"`
	LeftoverItems int64  `json:"leftover_items" yaml:"leftover_items"`
	LeftoverValue string `json:"leftover_value" yaml:"leftover_value"`
	ConsumedItems int64  `json:"consumed_items" yaml:"consumed_items"`
	ConsumedCost  string `json:"consumed_cost" yaml:"consumed_cost"`
}
