package schema

import "stonefire/internal/model"

// Default field sets. Load falls back to these when no schema document has
// been saved, and Reset overwrites the stored document with them. They must
// stay byte-for-byte stable so repeated resets compare equal.

var jobPositionOptions = []string{
	"Pizza Chef", "Server", "Delivery Driver", "Kitchen Assistant", "Other",
}

var jobDefaults = []model.FieldDefinition{
	{Key: "locationId", Label: "Location", Type: model.FieldSelect, Enabled: true, Required: true, Order: 0},
	{Key: "fullName", Label: "Full Name", Type: model.FieldText, Enabled: true, Required: true, Order: 1},
	{Key: "dateOfBirth", Label: "Date of Birth", Type: model.FieldDate, Enabled: true, Required: true, Order: 2},
	{Key: "phoneNumber", Label: "Phone Number", Type: model.FieldText, Enabled: true, Required: true, Order: 3},
	{Key: "emailAddress", Label: "Email Address", Type: model.FieldText, Enabled: true, Required: true, Order: 4},
	{Key: "currentAddress", Label: "Current Address", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 5},
	{Key: "desiredPosition", Label: "Desired Position", Type: model.FieldSelect, Enabled: true, Required: true, Order: 6, Options: jobPositionOptions},
	{Key: "formerEmployer1", Label: "Former Employer 1", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 7},
	{Key: "formerEmployer2", Label: "Former Employer 2", Type: model.FieldTextarea, Enabled: true, Required: false, Order: 8},
	{Key: "references", Label: "References", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 9},
	{Key: "availability", Label: "Availability", Type: model.FieldAvailability, Enabled: true, Required: true, Order: 10},
	{Key: "scheduleConflicts", Label: "Schedule Conflicts", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 11},
	{Key: "favoriteColor", Label: "Favorite Color", Type: model.FieldText, Enabled: true, Required: false, Order: 12},
	{Key: "nicknames", Label: "Nicknames", Type: model.FieldText, Enabled: true, Required: false, Order: 13},
	{Key: "favoriteBands", Label: "Favorite Bands", Type: model.FieldText, Enabled: true, Required: false, Order: 14},
	{Key: "hobbies", Label: "Hobbies", Type: model.FieldTextarea, Enabled: true, Required: false, Order: 15},
	{Key: "workChallengeQuestion", Label: "Work Challenge Question", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 16},
}

var cateringDefaults = []model.FieldDefinition{
	{Key: "locationId", Label: "Which store?", Type: model.FieldSelect, Enabled: true, Required: true, Order: 1, Options: []string{}},
	{Key: "name", Label: "Name", Type: model.FieldText, Enabled: true, Required: true, Order: 2},
	{Key: "companyName", Label: "Company Name", Type: model.FieldText, Enabled: true, Required: false, Order: 3},
	{Key: "fulfillmentType", Label: "Delivery or Pickup?", Type: model.FieldRadio, Enabled: true, Required: true, Order: 4, Options: []string{"delivery", "pickup"}},
	{Key: "deliveryAddress", Label: "Delivery Address", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 5,
		ShowWhen: &model.ShowWhen{Field: "fulfillmentType", Equals: "delivery"}},
	{Key: "email", Label: "Email", Type: model.FieldText, Enabled: true, Required: true, Order: 6},
	{Key: "phone", Label: "Phone Number", Type: model.FieldText, Enabled: true, Required: true, Order: 7},
	{Key: "alternatePhone", Label: "Alternate Phone", Type: model.FieldText, Enabled: true, Required: false, Order: 8},
	{Key: "orderDate", Label: "Order Date", Type: model.FieldDate, Enabled: true, Required: true, Order: 9},
	{Key: "orderReadyTime", Label: "Order Ready Time", Type: model.FieldTime, Enabled: true, Required: true, Order: 10},
	{Key: "numberOfPeople", Label: "Number of People", Type: model.FieldText, Enabled: true, Required: true, Order: 11},
	{Key: "cateringPackageOptions", Label: "Catering Package Options", Type: model.FieldMultiselect, Enabled: true, Required: false, Order: 12,
		Options: []string{"Package A", "Package B", "Package C", "Custom"}},
	{Key: "pizzaOrderDetails", Label: "Pizza Order Details", Type: model.FieldTextarea, Enabled: true, Required: true, Order: 13},
	{Key: "salads", Label: "Salads", Type: model.FieldTextarea, Enabled: true, Required: false, Order: 14},
	{Key: "drinks", Label: "Drinks", Type: model.FieldTextarea, Enabled: true, Required: false, Order: 15},
	{Key: "additionalNotes", Label: "Additional Notes", Type: model.FieldTextarea, Enabled: true, Required: false, Order: 16},
}

// DefaultFields returns a fresh copy of the built-in field sequence for a
// form. Unknown form names return nil.
func DefaultFields(form model.FormName) []model.FieldDefinition {
	var src []model.FieldDefinition
	switch form {
	case model.FormJobApplication:
		src = jobDefaults
	case model.FormCateringRequest:
		src = cateringDefaults
	default:
		return nil
	}

	out := make([]model.FieldDefinition, len(src))
	copy(out, src)
	for i := range out {
		if src[i].Options != nil {
			out[i].Options = append([]string{}, src[i].Options...)
		}
		if src[i].ShowWhen != nil {
			sw := *src[i].ShowWhen
			out[i].ShowWhen = &sw
		}
	}
	return out
}

// AllowedKeys returns the set of keys a form's schema may use. The job form
// is restricted to its predefined keys; the catering form accepts any key.
func AllowedKeys(form model.FormName) map[string]bool {
	if form != model.FormJobApplication {
		return nil
	}
	keys := make(map[string]bool, len(jobDefaults))
	for _, f := range jobDefaults {
		keys[f.Key] = true
	}
	return keys
}
