package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"stonefire/internal/forms"
	"stonefire/internal/model"
	"stonefire/internal/service"

	"go.uber.org/zap"
)

// RenderedField is a field definition paired with its resolved widget
type RenderedField struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Type     string          `json:"type"`
	Required bool            `json:"required"`
	Widget   forms.Widget    `json:"widget"`
	ShowWhen *model.ShowWhen `json:"showWhen,omitempty"`
}

func renderFields(visible []model.FieldDefinition) []RenderedField {
	out := make([]RenderedField, 0, len(visible))
	for _, f := range visible {
		widget, ok := forms.ResolveWidget(f)
		if !ok {
			// Types without a widget never reach the page
			continue
		}
		out = append(out, RenderedField{
			Key:      f.Key,
			Label:    f.Label,
			Type:     string(f.Type),
			Required: f.Required,
			Widget:   widget,
			ShowWhen: f.ShowWhen,
		})
	}
	return out
}

// getForm returns the initially visible fields for a form, before the
// visitor has entered anything.
func (d Dependencies) getForm(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}

	sch, err := d.Schemas.Load(r.Context(), form)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "schema_load_failed", "Could not load form", d.Log)
		return
	}

	scopeID := r.URL.Query().Get("locationId")
	visible := forms.VisibleFields(sch.Fields, forms.State{}, scopeID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"form":   string(form),
		"fields": renderFields(visible),
	})
}

type renderRequest struct {
	LocationID string                 `json:"locationId"`
	Values     map[string]interface{} `json:"values"`
}

// renderForm recomputes visibility for in-progress form state, so the page
// can show and hide conditional fields as the visitor types.
func (d Dependencies) renderForm(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}

	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	sch, err := d.Schemas.Load(r.Context(), form)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "schema_load_failed", "Could not load form", d.Log)
		return
	}

	state := forms.DecodeState(sch.Fields, req.Values)
	visible := forms.VisibleFields(sch.Fields, state, req.LocationID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"form":   string(form),
		"fields": renderFields(visible),
	})
}

type submitRequest struct {
	LocationID string                 `json:"locationId"`
	Values     map[string]interface{} `json:"values"`
}

func (d Dependencies) createSubmission(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	sch, err := d.Schemas.Load(r.Context(), form)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "schema_load_failed", "Could not load form", d.Log)
		return
	}
	state := forms.DecodeState(sch.Fields, req.Values)

	sub, verrs, err := d.Submissions.Submit(r.Context(), form, state, req.LocationID)
	if err != nil {
		var refErr *service.ReferentialError
		if errors.As(err, &refErr) {
			// The selected location went away between render and submit;
			// the visitor just needs to pick again.
			WriteError(w, http.StatusConflict, "location_unavailable", "That location is no longer available, please try again", d.Log)
			return
		}
		d.Log.Error("Submission failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "submit_failed", "Something went wrong, please try again", d.Log)
		return
	}
	if len(verrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": verrs,
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"submissionId": sub.ID,
		"status":       string(sub.Status),
	})
}
