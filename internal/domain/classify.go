package domain

import "strings"

// IngredientSource is one base component of an order's meal. Exactly one of
// Spec/Label is set: a structured specification can be decomposed into
// ingredient categories, a free-text line item cannot and stays an opaque
// label.
type IngredientSource struct {
	Spec  *MealSpecification
	Label string
}

// Classification splits an order into the standard meal and its add-ons.
type Classification struct {
	Base  []IngredientSource
	Extra []OrderItem
}

// ExtraPredicate decides whether a line item is an add-on rather than part of
// the base meal. Pluggable so the substring heuristic below can be swapped for
// a structured flag without touching the aggregator.
type ExtraPredicate func(OrderItem) bool

// IsExtraItem is the default predicate, inherited text convention: catalog
// owners mark add-ons with "extra" in the instructions or the item id, and
// delivery fees ride along as pseudo-items.
func IsExtraItem(it OrderItem) bool {
	if containsFold(it.SpecialInstructions, "extra") {
		return true
	}
	return containsFold(it.MenuItemID, "extra") || containsFold(it.MenuItemID, "delivery-fee")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// Classify partitions an order with the default predicate.
func Classify(o Order) Classification {
	return ClassifyWith(o, IsExtraItem)
}

// ClassifyWith partitions an order's line items into base and extra. When the
// order has no line items at all, the subscription plan's meal specification
// is the sole base source. An order with neither contributes nothing to
// ingredient totals but still counts toward total orders and its status
// bucket. Pure function; absence of data is a valid state, not a fault.
func ClassifyWith(o Order, isExtra ExtraPredicate) Classification {
	var c Classification
	if len(o.Items) > 0 {
		for _, it := range o.Items {
			if isExtra(it) {
				c.Extra = append(c.Extra, it)
				continue
			}
			c.Base = append(c.Base, IngredientSource{Label: baseLabel(it)})
		}
		return c
	}
	if o.Plan != nil && o.Plan.MealSpecification != nil {
		c.Base = append(c.Base, IngredientSource{Spec: o.Plan.MealSpecification})
	}
	return c
}

func baseLabel(it OrderItem) string {
	if it.Name != "" {
		return it.Name
	}
	return it.SpecialInstructions
}

// ExtraKey derives the aggregation bucket for an add-on line item: first
// non-empty of name, special instructions, menu item id.
func ExtraKey(it OrderItem) string {
	switch {
	case it.Name != "":
		return it.Name
	case it.SpecialInstructions != "":
		return it.SpecialInstructions
	default:
		return it.MenuItemID
	}
}
