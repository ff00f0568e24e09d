package domain

// ProductionSummary is the rolled-up kitchen view for one partner and one
// service date. Recomputed from the current order set on every request; it is
// never stored, so it can never go stale.
type ProductionSummary struct {
	Date                 string               `json:"date"` // YYYY-MM-DD
	TotalOrders          int                  `json:"total_orders"`
	CompletionPercentage int                  `json:"completion_percentage"`
	MealBreakdown        MealBreakdown        `json:"meal_breakdown"`
	IngredientTotals     IngredientTotals     `json:"ingredient_totals"`
	PlanBreakdown        map[string]PlanCount `json:"plan_breakdown"`
	StatusBreakdown      StatusBreakdown      `json:"status_breakdown"`
}

type MealBreakdown struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snack"`
}

type IngredientTotals struct {
	Rotis  int            `json:"rotis"`
	Sabzis map[string]int `json:"sabzis"`
	Dal    CategoryTotals `json:"dal"`
	Rice   CategoryTotals `json:"rice"`
	Extras map[string]int `json:"extras"`
	Salad  int            `json:"salad"`
	Curd   int            `json:"curd"`
}

// CategoryTotals counts orders requesting a dish category, split by type.
type CategoryTotals struct {
	Total int            `json:"total"`
	Types map[string]int `json:"types"`
}

type PlanCount struct {
	Count    int      `json:"count"`
	OrderIDs []string `json:"order_ids"`
}

// StatusBreakdown reports every canonical status as its own bucket, including
// the ones that no longer count toward production.
type StatusBreakdown struct {
	Pending        int `json:"pending"`
	Confirmed      int `json:"confirmed"`
	Preparing      int `json:"preparing"`
	Ready          int `json:"ready"`
	OutForDelivery int `json:"out_for_delivery"`
	Delivered      int `json:"delivered"`
	Cancelled      int `json:"cancelled"`
	Rejected       int `json:"rejected"`
	Skipped        int `json:"skipped"`
}

// NewIngredientTotals returns totals with all maps allocated, so folding and
// JSON encoding never hit a nil map.
func NewIngredientTotals() IngredientTotals {
	return IngredientTotals{
		Sabzis: map[string]int{},
		Dal:    CategoryTotals{Types: map[string]int{}},
		Rice:   CategoryTotals{Types: map[string]int{}},
		Extras: map[string]int{},
	}
}
