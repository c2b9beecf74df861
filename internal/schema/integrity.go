package schema

import (
	"fmt"

	"stonefire/internal/model"
)

// IntegrityError rejects a schema update. The previously stored schema stays
// untouched when one is returned.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "schema integrity: " + e.Reason
}

// ValidateIntegrity enforces the semantic rules a saved schema must satisfy:
// the scope selector stays enabled and required, keys are unique (and, for
// the job form, drawn from the predefined set), and every showWhen rule
// references another enabled field in the same schema.
func ValidateIntegrity(form model.FormName, fields []model.FieldDefinition) error {
	allowed := AllowedKeys(form)

	seen := make(map[string]bool, len(fields))
	enabled := make(map[string]bool, len(fields))
	var scope *model.FieldDefinition
	for i, f := range fields {
		if seen[f.Key] {
			return &IntegrityError{Reason: fmt.Sprintf("duplicate field key %q", f.Key)}
		}
		seen[f.Key] = true
		if f.Enabled {
			enabled[f.Key] = true
		}
		if allowed != nil && !allowed[f.Key] {
			return &IntegrityError{Reason: fmt.Sprintf("invalid field key %q", f.Key)}
		}
		if f.Key == model.ScopeSelectorKey {
			scope = &fields[i]
		}
	}

	if scope == nil || !scope.Enabled || !scope.Required {
		return &IntegrityError{Reason: model.ScopeSelectorKey + " field must be enabled and required"}
	}

	for _, f := range fields {
		if f.ShowWhen == nil {
			continue
		}
		if f.ShowWhen.Field == f.Key {
			return &IntegrityError{Reason: fmt.Sprintf("field %q cannot depend on itself", f.Key)}
		}
		if !enabled[f.ShowWhen.Field] {
			return &IntegrityError{Reason: fmt.Sprintf("field %q depends on missing or disabled field %q", f.Key, f.ShowWhen.Field)}
		}
	}

	return nil
}
