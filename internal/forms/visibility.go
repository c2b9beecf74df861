package forms

import (
	"sort"

	"stonefire/internal/model"
)

// VisibleFields returns the fields that should render for the current state,
// in display order. A field survives when it is enabled, its location
// restriction (if any) admits the selected scope, and its showWhen rule
// (if any) matches the referenced field's current value. Absent values never
// match. Validation must use this exact computation so that no field can be
// required-but-hidden or shown-but-unvalidated.
func VisibleFields(fields []model.FieldDefinition, state State, scopeID string) []model.FieldDefinition {
	visible := make([]model.FieldDefinition, 0, len(fields))
	for _, f := range fields {
		if !f.Enabled {
			continue
		}
		if len(f.Locations) > 0 && !containsString(f.Locations, scopeID) {
			continue
		}
		if f.ShowWhen != nil && state.Text(f.ShowWhen.Field) != f.ShowWhen.Equals {
			continue
		}
		visible = append(visible, f)
	}

	// Stable sort keeps collection order for duplicate Order values
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})
	return visible
}

func containsString(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SwapOrder exchanges the Order values (and slice positions) of two fields.
// It is the only supported reordering primitive.
func SwapOrder(fields []model.FieldDefinition, i, j int) {
	if i < 0 || j < 0 || i >= len(fields) || j >= len(fields) {
		return
	}
	fields[i].Order, fields[j].Order = fields[j].Order, fields[i].Order
	fields[i], fields[j] = fields[j], fields[i]
}
