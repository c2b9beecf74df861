package schema

import (
	"testing"

	"stonefire/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIntegrityAcceptsDefaults(t *testing.T) {
	for _, form := range []model.FormName{model.FormJobApplication, model.FormCateringRequest} {
		assert.NoError(t, ValidateIntegrity(form, DefaultFields(form)))
	}
}

func TestValidateIntegrityDuplicateKeys(t *testing.T) {
	fields := DefaultFields(model.FormJobApplication)
	fields[1].Key = fields[2].Key

	err := ValidateIntegrity(model.FormJobApplication, fields)
	require.Error(t, err)
	assert.IsType(t, &IntegrityError{}, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestValidateIntegrityJobFormKeyWhitelist(t *testing.T) {
	fields := DefaultFields(model.FormJobApplication)
	fields[5].Key = "favoriteFootballTeam"

	err := ValidateIntegrity(model.FormJobApplication, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid field key")
}

func TestValidateIntegrityCateringFormAllowsNewKeys(t *testing.T) {
	fields := DefaultFields(model.FormCateringRequest)
	fields = append(fields, model.FieldDefinition{
		Key: "dessertPreferences", Label: "Desserts", Type: model.FieldTextarea,
		Enabled: true, Required: false, Order: 17,
	})

	assert.NoError(t, ValidateIntegrity(model.FormCateringRequest, fields))
}

func TestValidateIntegrityScopeSelectorMustStayEnabledAndRequired(t *testing.T) {
	disable := DefaultFields(model.FormCateringRequest)
	disable[0].Enabled = false
	err := ValidateIntegrity(model.FormCateringRequest, disable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.ScopeSelectorKey)

	optional := DefaultFields(model.FormCateringRequest)
	optional[0].Required = false
	err = ValidateIntegrity(model.FormCateringRequest, optional)
	require.Error(t, err)

	var missing []model.FieldDefinition
	for _, f := range DefaultFields(model.FormCateringRequest) {
		if f.Key != model.ScopeSelectorKey {
			missing = append(missing, f)
		}
	}
	err = ValidateIntegrity(model.FormCateringRequest, missing)
	require.Error(t, err)
}

func TestValidateIntegrityShowWhenSelfReference(t *testing.T) {
	fields := DefaultFields(model.FormCateringRequest)
	for i := range fields {
		if fields[i].Key == "deliveryAddress" {
			fields[i].ShowWhen = &model.ShowWhen{Field: "deliveryAddress", Equals: "x"}
		}
	}

	err := ValidateIntegrity(model.FormCateringRequest, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot depend on itself")
}

func TestValidateIntegrityShowWhenMustReferenceEnabledField(t *testing.T) {
	fields := DefaultFields(model.FormCateringRequest)
	for i := range fields {
		if fields[i].Key == "fulfillmentType" {
			fields[i].Enabled = false
		}
	}

	err := ValidateIntegrity(model.FormCateringRequest, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing or disabled")
}
