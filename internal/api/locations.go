package api

import (
	"encoding/json"
	"net/http"

	"stonefire/internal/db"

	"github.com/go-chi/chi/v5"
)

// listPublicLocations backs the scope selector on the public forms. The job
// application form only offers locations that are hiring.
func (d Dependencies) listPublicLocations(w http.ResponseWriter, r *http.Request) {
	hiringOnly := r.URL.Query().Get("hiring") == "true"

	locs, err := d.Locations.ListScopes(r.Context(), hiringOnly)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", "Could not list locations", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": locs,
	})
}

func (d Dependencies) listLocations(w http.ResponseWriter, r *http.Request) {
	locs, err := d.Locations.ListAll(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", "Could not list locations", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": locs,
	})
}

func (d Dependencies) createLocation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		IsHiring bool   `json:"isHiring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}
	if body.Name == "" || body.Slug == "" {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Name and slug are required", d.Log)
		return
	}

	loc, err := d.Locations.CreateLocation(r.Context(), body.Name, body.Slug, body.IsHiring)
	if err != nil {
		WriteError(w, http.StatusConflict, "create_failed", err.Error(), d.Log)
		return
	}

	writeJSON(w, http.StatusCreated, loc)
}

func (d Dependencies) updateLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Name     *string `json:"name"`
		Slug     *string `json:"slug"`
		IsActive *bool   `json:"isActive"`
		IsHiring *bool   `json:"isHiring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	loc, err := d.Locations.UpdateLocation(r.Context(), id, db.UpdateLocationParams{
		Name:     body.Name,
		Slug:     body.Slug,
		IsActive: body.IsActive,
		IsHiring: body.IsHiring,
	})
	if err != nil {
		WriteError(w, http.StatusConflict, "update_failed", err.Error(), d.Log)
		return
	}

	writeJSON(w, http.StatusOK, loc)
}

func (d Dependencies) deleteLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := d.Locations.DeleteLocation(r.Context(), id); err != nil {
		WriteError(w, http.StatusConflict, "delete_failed", err.Error(), d.Log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
