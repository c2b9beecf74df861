package forms

import (
	"encoding/json"

	"stonefire/internal/model"
)

// Value is one field's current payload. The concrete shape is fixed by the
// field's declared type: Text for text/textarea/select/radio/date/time,
// Choices for multiselect, Grid for availability.
type Value interface {
	isValue()
}

// Text is a single string value
type Text string

// Choices is the ordered set of selected multiselect options
type Choices []string

// Grid is a weekly-availability value
type Grid model.Availability

func (Text) isValue()    {}
func (Choices) isValue() {}
func (Grid) isValue()    {}

// State maps field keys to their current values. One State belongs to exactly
// one in-progress form session.
type State map[string]Value

// Text returns the string payload for a key, or "" when the key is absent or
// holds a non-string shape.
func (s State) Text(key string) string {
	if v, ok := s[key].(Text); ok {
		return string(v)
	}
	return ""
}

// DecodeState coerces a decoded JSON object into typed values using each
// field's declared type. Keys without a matching field and values of the
// wrong shape are dropped; validation then reports them as missing.
func DecodeState(fields []model.FieldDefinition, raw map[string]interface{}) State {
	byKey := make(map[string]model.FieldDefinition, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	state := make(State, len(raw))
	for key, rv := range raw {
		f, ok := byKey[key]
		if !ok {
			continue
		}
		if v, ok := decodeValue(f.Type, rv); ok {
			state[key] = v
		}
	}
	return state
}

func decodeValue(t model.FieldType, raw interface{}) (Value, bool) {
	switch t {
	case model.FieldText, model.FieldTextarea, model.FieldSelect,
		model.FieldRadio, model.FieldDate, model.FieldTime:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		return Text(s), true

	case model.FieldMultiselect:
		items, ok := raw.([]interface{})
		if !ok {
			return nil, false
		}
		choices := make(Choices, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			choices = append(choices, s)
		}
		return choices, true

	case model.FieldAvailability:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil, false
		}
		// Round-trip through JSON so the day keys land in the struct
		b, err := json.Marshal(obj)
		if err != nil {
			return nil, false
		}
		var avail model.Availability
		if err := json.Unmarshal(b, &avail); err != nil {
			return nil, false
		}
		return Grid(avail), true
	}
	return nil, false
}

// Plain converts a typed value back to its JSON-facing shape for persistence
func Plain(v Value) interface{} {
	switch tv := v.(type) {
	case Text:
		return string(tv)
	case Choices:
		return []string(tv)
	case Grid:
		return model.Availability(tv)
	}
	return nil
}

// Toggle flips one option in a multiselect set, appending when absent and
// removing when present.
func (c Choices) Toggle(option string) Choices {
	for i, v := range c {
		if v == option {
			return append(append(Choices{}, c[:i]...), c[i+1:]...)
		}
	}
	return append(append(Choices{}, c...), option)
}
