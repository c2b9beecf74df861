package forms

import (
	"testing"

	"stonefire/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStateCoercesByDeclaredType(t *testing.T) {
	fields := []model.FieldDefinition{
		textField("fullName", 0),
		{Key: "packages", Label: "Packages", Type: model.FieldMultiselect,
			Enabled: true, Required: false, Order: 1},
		{Key: "availability", Label: "Availability", Type: model.FieldAvailability,
			Enabled: true, Required: false, Order: 2},
	}

	raw := map[string]interface{}{
		"fullName": "Ada",
		"packages": []interface{}{"A", "B"},
		"availability": map[string]interface{}{
			"monday": map[string]interface{}{"am": true, "pm": false},
		},
	}

	state := DecodeState(fields, raw)
	require.Len(t, state, 3)
	assert.Equal(t, Text("Ada"), state["fullName"])
	assert.Equal(t, Choices{"A", "B"}, state["packages"])

	grid, ok := state["availability"].(Grid)
	require.True(t, ok)
	assert.True(t, model.Availability(grid).Monday.AM)
	assert.False(t, model.Availability(grid).Monday.PM)
}

func TestDecodeStateDropsUnknownKeysAndWrongShapes(t *testing.T) {
	fields := []model.FieldDefinition{
		textField("fullName", 0),
		{Key: "packages", Label: "Packages", Type: model.FieldMultiselect,
			Enabled: true, Required: false, Order: 1},
	}

	raw := map[string]interface{}{
		"fullName":  42,                       // wrong shape for a text field
		"packages":  "not-a-list",             // wrong shape for a multiselect
		"notAField": "value without a schema", // unknown key
	}

	state := DecodeState(fields, raw)
	assert.Empty(t, state)
}

func TestStateTextOnNonTextValue(t *testing.T) {
	state := State{"packages": Choices{"A"}}
	assert.Equal(t, "", state.Text("packages"))
	assert.Equal(t, "", state.Text("missing"))
}

func TestChoicesToggle(t *testing.T) {
	c := Choices{"A", "B"}

	c = c.Toggle("C")
	assert.Equal(t, Choices{"A", "B", "C"}, c)

	c = c.Toggle("B")
	assert.Equal(t, Choices{"A", "C"}, c)
}

func TestChoicesToggleDoesNotMutateReceiver(t *testing.T) {
	orig := Choices{"A", "B"}
	_ = orig.Toggle("B")
	assert.Equal(t, Choices{"A", "B"}, orig)
}

func TestPlainRoundTrip(t *testing.T) {
	assert.Equal(t, "x", Plain(Text("x")))
	assert.Equal(t, []string{"a"}, Plain(Choices{"a"}))

	avail := model.Availability{}
	avail.Friday.AM = true
	assert.Equal(t, avail, Plain(Grid(avail)))
}
