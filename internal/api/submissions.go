package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"stonefire/internal/model"

	"github.com/go-chi/chi/v5"
)

func (d Dependencies) listSubmissions(w http.ResponseWriter, r *http.Request) {
	form, ok := formParam(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown_form", "Unknown form", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, form) {
		return
	}

	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	subs, err := d.Submissions.ListSubmissions(r.Context(), form, statusPtr, limit, offset)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", "Could not list submissions", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": subs,
	})
}

func (d Dependencies) getSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := d.Submissions.GetSubmission(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "Submission not found", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, sub.Form) {
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

func (d Dependencies) updateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	sub, err := d.Submissions.GetSubmission(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "Submission not found", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, sub.Form) {
		return
	}

	if err := d.Submissions.TransitionStatus(r.Context(), id, model.SubmissionStatus(body.Status)); err != nil {
		WriteError(w, http.StatusConflict, "invalid_transition", err.Error(), d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}

func (d Dependencies) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := d.Submissions.GetSubmission(r.Context(), id)
	if err != nil {
		WriteError(w, http.StatusNotFound, "not_found", "Submission not found", d.Log)
		return
	}
	if !d.requireFormAccess(w, r, sub.Form) {
		return
	}

	if err := d.Submissions.DeleteSubmission(r.Context(), id); err != nil {
		WriteError(w, http.StatusInternalServerError, "delete_failed", "Could not delete submission", d.Log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
