package model

// FieldType selects the input widget and the value shape for a form field
type FieldType string

const (
	FieldText         FieldType = "text"
	FieldTextarea     FieldType = "textarea"
	FieldSelect       FieldType = "select"
	FieldRadio        FieldType = "radio"
	FieldMultiselect  FieldType = "multiselect"
	FieldDate         FieldType = "date"
	FieldTime         FieldType = "time"
	FieldAvailability FieldType = "availability"
)

// FormName identifies one configurable form
type FormName string

const (
	FormJobApplication  FormName = "jobApplication"
	FormCateringRequest FormName = "cateringRequest"
)

// ScopeSelectorKey is the field whose value restricts other fields to a
// location. It must stay enabled and required in every saved schema.
const ScopeSelectorKey = "locationId"

// ShowWhen makes a field visible only while another field holds an exact value
type ShowWhen struct {
	Field  string `json:"field"`
	Equals string `json:"equals"`
}

// FieldDefinition describes one form input
type FieldDefinition struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Enabled  bool      `json:"enabled"`
	Required bool      `json:"required"`
	Order    int       `json:"order"`
	Options  []string  `json:"options,omitempty"`
	ShowWhen *ShowWhen `json:"showWhen,omitempty"`
	// Locations restricts the field to a subset of location IDs. Empty means
	// the field applies everywhere.
	Locations []string `json:"locations,omitempty"`
}

// FormSchema is the persisted ordered field list for one form
type FormSchema struct {
	Form      FormName          `json:"form"`
	Fields    []FieldDefinition `json:"fields"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

// DayAvailability is one weekday's morning/evening pair
type DayAvailability struct {
	AM bool `json:"am"`
	PM bool `json:"pm"`
}

// Availability is the structured weekly-availability value
type Availability struct {
	Monday    DayAvailability `json:"monday"`
	Tuesday   DayAvailability `json:"tuesday"`
	Wednesday DayAvailability `json:"wednesday"`
	Thursday  DayAvailability `json:"thursday"`
	Friday    DayAvailability `json:"friday"`
	Saturday  DayAvailability `json:"saturday"`
	Sunday    DayAvailability `json:"sunday"`
}

// Days returns the day pairs in weekday order
func (a Availability) Days() []DayAvailability {
	return []DayAvailability{
		a.Monday, a.Tuesday, a.Wednesday, a.Thursday, a.Friday, a.Saturday, a.Sunday,
	}
}

// AnySlot reports whether at least one day/period boolean is set
func (a Availability) AnySlot() bool {
	for _, d := range a.Days() {
		if d.AM || d.PM {
			return true
		}
	}
	return false
}

// SubmissionStatus represents the workflow state of a stored submission
type SubmissionStatus string

const (
	StatusNew       SubmissionStatus = "NEW"
	StatusReviewed  SubmissionStatus = "REVIEWED"
	StatusHired     SubmissionStatus = "HIRED"
	StatusDenied    SubmissionStatus = "DENIED"
	StatusContacted SubmissionStatus = "CONTACTED"
	StatusCompleted SubmissionStatus = "COMPLETED"
	StatusDeclined  SubmissionStatus = "DECLINED"
)

// Submission is a persisted form submission document
type Submission struct {
	ID         string                 `json:"id"`
	Form       FormName               `json:"form"`
	LocationID string                 `json:"locationId,omitempty"`
	Values     map[string]interface{} `json:"values"`
	Status     SubmissionStatus       `json:"status"`
	CreatedAt  string                 `json:"createdAt,omitempty"`
	UpdatedAt  string                 `json:"updatedAt,omitempty"`
}

// Location is an organizational scope (one restaurant store)
type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  bool   `json:"isActive"`
	IsHiring  bool   `json:"isHiring"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Role controls which admin resources a user may access
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleJobs     Role = "jobs"
	RoleCatering Role = "catering"
	RoleBoth     Role = "both"
)

// Resource names an admin-guarded area
type Resource string

const (
	ResourceJobs     Resource = "jobs"
	ResourceCatering Resource = "catering"
	ResourceUsers    Resource = "users"
)

// HasAccess reports whether a role may touch a resource. Only admin reaches
// the users resource.
func (r Role) HasAccess(res Resource) bool {
	if r == RoleAdmin {
		return true
	}
	switch res {
	case ResourceJobs:
		return r == RoleJobs || r == RoleBoth
	case ResourceCatering:
		return r == RoleCatering || r == RoleBoth
	default:
		return false
	}
}

// User is an admin dashboard account
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"createdAt,omitempty"`
}
