package forms

import (
	"fmt"
	"strings"
	"time"

	"stonefire/internal/model"
)

// Errors maps field keys to human-readable messages. An empty map means the
// state is safe to persist.
type Errors map[string]string

type dateBound int

const (
	boundNone dateBound = iota
	boundNoFuture
	boundNoPast
)

// dateBoundFor attaches the date-range rule to a field by key. Birth dates
// cannot be in the future; order and event dates cannot be in the past.
func dateBoundFor(key string) dateBound {
	switch key {
	case "dateOfBirth":
		return boundNoFuture
	case "orderDate", "eventDate":
		return boundNoPast
	}
	return boundNone
}

// Validate checks the state against the schema and returns per-field errors.
// Visibility is computed with the same function the renderer uses, so exactly
// the visible required fields are enforced. The server runs this again on a
// freshly loaded schema before persisting; client results are never trusted.
func Validate(fields []model.FieldDefinition, state State, scopeID string) Errors {
	errs := Errors{}

	for _, f := range VisibleFields(fields, state, scopeID) {
		switch f.Type {
		case model.FieldText, model.FieldTextarea, model.FieldSelect,
			model.FieldRadio, model.FieldTime:
			val := strings.TrimSpace(state.Text(f.Key))
			if f.Required && val == "" {
				errs[f.Key] = fmt.Sprintf("%s is required", f.Label)
				continue
			}
			if val != "" && isEmailKey(f.Key) && !strings.Contains(val, "@") {
				errs[f.Key] = "Please enter a valid email address"
			}

		case model.FieldDate:
			val := strings.TrimSpace(state.Text(f.Key))
			if f.Required && val == "" {
				errs[f.Key] = fmt.Sprintf("%s is required", f.Label)
				continue
			}
			if val == "" {
				continue
			}
			day, err := time.Parse("2006-01-02", val)
			if err != nil {
				errs[f.Key] = fmt.Sprintf("%s must be a valid date", f.Label)
				continue
			}
			today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
			switch dateBoundFor(f.Key) {
			case boundNoFuture:
				if day.After(today) {
					errs[f.Key] = fmt.Sprintf("%s cannot be in the future", f.Label)
				}
			case boundNoPast:
				if day.Before(today) {
					errs[f.Key] = fmt.Sprintf("%s cannot be in the past", f.Label)
				}
			}

		case model.FieldMultiselect:
			if !f.Required {
				continue
			}
			choices, _ := state[f.Key].(Choices)
			if len(choices) == 0 {
				errs[f.Key] = fmt.Sprintf("%s is required", f.Label)
			}

		case model.FieldAvailability:
			if !f.Required {
				continue
			}
			grid, ok := state[f.Key].(Grid)
			if !ok || !model.Availability(grid).AnySlot() {
				errs[f.Key] = fmt.Sprintf("%s is required", f.Label)
			}
		}
	}

	return errs
}

// The email rule is a minimal presence-of-@ check, intentionally permissive
func isEmailKey(key string) bool {
	return strings.Contains(strings.ToLower(key), "email")
}

// AssembleRecord copies the values of the currently visible fields into a
// plain map for persistence. Values held for fields hidden by scope or
// condition are dropped so the record only carries answers the submitter
// actually saw.
func AssembleRecord(fields []model.FieldDefinition, state State, scopeID string) map[string]interface{} {
	record := make(map[string]interface{})
	for _, f := range VisibleFields(fields, state, scopeID) {
		v, ok := state[f.Key]
		if !ok {
			continue
		}
		record[f.Key] = Plain(v)
	}
	return record
}
