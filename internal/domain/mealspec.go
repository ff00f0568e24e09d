package domain

import "fmt"

// MealSpecification describes what a recurring subscription meal contains.
// Immutable once read; every field is optional — an empty specification is
// valid and aggregates to zero. Quantity labels ("1 bowl", "2 pieces") are
// free-form text, not machine units: aggregation counts occurrences and never
// tries to sum the labels.
type MealSpecification struct {
	Rotis  *int        `json:"rotis,omitempty"`
	Sabzis []Sabzi     `json:"sabzis,omitempty"`
	Dal    *DalSpec    `json:"dal,omitempty"`
	Rice   *RiceSpec   `json:"rice,omitempty"`
	Extras []ExtraSpec `json:"extras,omitempty"`
	Salad  bool        `json:"salad,omitempty"`
	Curd   bool        `json:"curd,omitempty"`
}

type Sabzi struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type DalSpec struct {
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
}

type RiceSpec struct {
	Quantity string `json:"quantity"`
	Type     string `json:"type"`
}

type ExtraSpec struct {
	Name     string  `json:"name"`
	Included bool    `json:"included"`
	Cost     float64 `json:"cost"`
}

func (m *MealSpecification) Validate() error {
	if m == nil {
		return nil
	}
	if m.Rotis != nil && *m.Rotis < 0 {
		return fmt.Errorf("rotis must be >= 0, got %d", *m.Rotis)
	}
	for _, s := range m.Sabzis {
		if s.Name == "" {
			return fmt.Errorf("sabzi name is required")
		}
	}
	for _, e := range m.Extras {
		if e.Name == "" {
			return fmt.Errorf("extra name is required")
		}
		if e.Cost < 0 {
			return fmt.Errorf("extra %q: cost must be >= 0, got %v", e.Name, e.Cost)
		}
	}
	return nil
}

// IsZero reports whether the specification contributes nothing to production.
func (m *MealSpecification) IsZero() bool {
	if m == nil {
		return true
	}
	return (m.Rotis == nil || *m.Rotis == 0) &&
		len(m.Sabzis) == 0 && m.Dal == nil && m.Rice == nil &&
		len(m.Extras) == 0 && !m.Salad && !m.Curd
}
