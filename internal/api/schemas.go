package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"stonefire/internal/forms"
	"stonefire/internal/schema"

	"go.uber.org/zap"
)

func (d Dependencies) getSchema(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, form) {
		return
	}

	sch, err := d.Schemas.Load(r.Context(), form)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "schema_load_failed", "Could not load schema", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, sch)
}

// putSchema replaces the whole field list for a form. Raw body bytes go to
// the service so the shape check sees exactly what the client sent.
func (d Dependencies) putSchema(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, form) {
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Could not read request body", d.Log)
		return
	}

	if err := d.Schemas.Save(r.Context(), form, raw); err != nil {
		var integrityErr *schema.IntegrityError
		if errors.As(err, &integrityErr) {
			WriteError(w, http.StatusUnprocessableEntity, "schema_rejected", integrityErr.Reason, d.Log)
			return
		}
		d.Log.Error("Schema save failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "save_failed", "Could not save schema", d.Log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (d Dependencies) resetSchema(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, form) {
		return
	}

	if err := d.Schemas.Reset(r.Context(), form); err != nil {
		WriteError(w, http.StatusInternalServerError, "reset_failed", "Could not reset schema", d.Log)
		return
	}

	sch, err := d.Schemas.Load(r.Context(), form)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "schema_load_failed", "Could not load schema", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, sch)
}

// reorderSchema swaps the Order values of two fields, identified by their
// positions in the current field list. The admin UI only ever moves one step
// at a time.
func (d Dependencies) reorderSchema(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, form) {
		return
	}

	var body struct {
		I int `json:"i"`
		J int `json:"j"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	sch, err := d.Schemas.Load(r.Context(), form)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "schema_load_failed", "Could not load schema", d.Log)
		return
	}

	if body.I < 0 || body.J < 0 || body.I >= len(sch.Fields) || body.J >= len(sch.Fields) {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Field index out of range", d.Log)
		return
	}

	forms.SwapOrder(sch.Fields, body.I, body.J)

	raw, err := json.Marshal(sch.Fields)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "save_failed", "Could not save schema", d.Log)
		return
	}
	if err := d.Schemas.Save(r.Context(), form, raw); err != nil {
		WriteError(w, http.StatusInternalServerError, "save_failed", "Could not save schema", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, sch)
}
