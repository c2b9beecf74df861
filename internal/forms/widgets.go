package forms

import (
	"time"

	"stonefire/internal/model"
)

// Widget identifiers resolved for field types
const (
	WidgetTextInput    = "text-input"
	WidgetTextarea     = "textarea"
	WidgetSelect       = "select"
	WidgetRadioGroup   = "radio-group"
	WidgetCheckboxList = "checkbox-list"
	WidgetDatePicker   = "date-picker"
	WidgetTimePicker   = "time-picker"
	WidgetWeeklyGrid   = "weekly-grid"
)

// Widget describes the input control a renderer should emit for one field.
// DateMin/DateMax are presentation hints in ISO date form; the corresponding
// server rule lives in Validate.
type Widget struct {
	Name    string   `json:"name"`
	Options []string `json:"options,omitempty"`
	DateMin string   `json:"dateMin,omitempty"`
	DateMax string   `json:"dateMax,omitempty"`
	// DynamicOptions marks the scope selector, whose option list comes from
	// the live location list rather than the schema.
	DynamicOptions bool `json:"dynamicOptions,omitempty"`
}

// ResolveWidget maps a field to its widget. Unrecognized types resolve
// nothing and the field is skipped silently.
func ResolveWidget(f model.FieldDefinition) (Widget, bool) {
	switch f.Type {
	case model.FieldText:
		return Widget{Name: WidgetTextInput}, true
	case model.FieldTextarea:
		return Widget{Name: WidgetTextarea}, true
	case model.FieldSelect:
		if f.Key == model.ScopeSelectorKey {
			return Widget{Name: WidgetSelect, DynamicOptions: true}, true
		}
		return Widget{Name: WidgetSelect, Options: f.Options}, true
	case model.FieldRadio:
		return Widget{Name: WidgetRadioGroup, Options: f.Options}, true
	case model.FieldMultiselect:
		return Widget{Name: WidgetCheckboxList, Options: f.Options}, true
	case model.FieldDate:
		w := Widget{Name: WidgetDatePicker}
		today := time.Now().Format("2006-01-02")
		switch dateBoundFor(f.Key) {
		case boundNoFuture:
			w.DateMax = today
		case boundNoPast:
			w.DateMin = today
		}
		return w, true
	case model.FieldTime:
		return Widget{Name: WidgetTimePicker}, true
	case model.FieldAvailability:
		return Widget{Name: WidgetWeeklyGrid}, true
	}
	return Widget{}, false
}
