package schema

import (
	"encoding/json"
	"testing"

	"stonefire/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerAcceptsDefaults(t *testing.T) {
	c := NewChecker(8)

	for _, form := range []model.FormName{model.FormJobApplication, model.FormCateringRequest} {
		raw, err := json.Marshal(DefaultFields(form))
		require.NoError(t, err)
		assert.NoError(t, c.Check(form, raw), "defaults rejected for %s", form)
	}
}

func TestCheckerRejectsMalformedJSON(t *testing.T) {
	c := NewChecker(8)
	assert.Error(t, c.Check(model.FormJobApplication, []byte("{not json")))
}

func TestCheckerRejectsNonArrayDocument(t *testing.T) {
	c := NewChecker(8)
	assert.Error(t, c.Check(model.FormJobApplication, []byte(`{"key":"locationId"}`)))
}

func TestCheckerRejectsUnknownProperty(t *testing.T) {
	c := NewChecker(8)
	raw := []byte(`[{"key":"locationId","label":"Location","type":"select",
		"enabled":true,"required":true,"order":0,"color":"red"}]`)
	assert.Error(t, c.Check(model.FormJobApplication, raw))
}

func TestCheckerRejectsMissingMember(t *testing.T) {
	c := NewChecker(8)
	raw := []byte(`[{"key":"locationId","label":"Location","type":"select",
		"enabled":true,"required":true}]`)
	assert.Error(t, c.Check(model.FormJobApplication, raw))
}

func TestCheckerFieldTypesDifferPerForm(t *testing.T) {
	c := NewChecker(8)

	avail := []byte(`[{"key":"availability","label":"Availability","type":"availability",
		"enabled":true,"required":true,"order":0}]`)

	// The weekly grid only exists on the job application
	assert.NoError(t, c.Check(model.FormJobApplication, avail))
	assert.Error(t, c.Check(model.FormCateringRequest, avail))

	radio := []byte(`[{"key":"fulfillmentType","label":"Delivery or Pickup?","type":"radio",
		"enabled":true,"required":true,"order":0,"options":["delivery","pickup"]}]`)
	assert.NoError(t, c.Check(model.FormCateringRequest, radio))
	assert.Error(t, c.Check(model.FormJobApplication, radio))
}

func TestCheckerShowWhenShape(t *testing.T) {
	c := NewChecker(8)

	good := []byte(`[{"key":"deliveryAddress","label":"Delivery Address","type":"textarea",
		"enabled":true,"required":true,"order":0,
		"showWhen":{"field":"fulfillmentType","equals":"delivery"}}]`)
	assert.NoError(t, c.Check(model.FormCateringRequest, good))

	bad := []byte(`[{"key":"deliveryAddress","label":"Delivery Address","type":"textarea",
		"enabled":true,"required":true,"order":0,
		"showWhen":{"field":"fulfillmentType"}}]`)
	assert.Error(t, c.Check(model.FormCateringRequest, bad))
}

func TestCheckerReusesCompiledSchema(t *testing.T) {
	c := NewChecker(8)
	raw, err := json.Marshal(DefaultFields(model.FormJobApplication))
	require.NoError(t, err)

	require.NoError(t, c.Check(model.FormJobApplication, raw))
	require.NoError(t, c.Check(model.FormJobApplication, raw))
}
