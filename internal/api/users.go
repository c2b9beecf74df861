package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"stonefire/internal/model"
	"stonefire/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (d Dependencies) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	user, err := d.Users.VerifyCredentials(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", d.Log)
			return
		}
		d.Log.Error("Login failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "login_failed", "Could not log in", d.Log)
		return
	}

	token, err := d.JWT.IssueToken(user.ID, user.Role)
	if err != nil {
		d.Log.Error("Token issue failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "login_failed", "Could not log in", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (d Dependencies) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := d.Users.ListUsers(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", "Could not list users", d.Log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": users,
	})
}

func (d Dependencies) createUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	user, err := d.Users.CreateUser(r.Context(), body.Email, body.Password, model.Role(body.Role))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "create_failed", err.Error(), d.Log)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (d Dependencies) updateUserRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid request body", d.Log)
		return
	}

	if err := d.Users.UpdateUserRole(r.Context(), id, model.Role(body.Role)); err != nil {
		WriteError(w, http.StatusBadRequest, "update_failed", err.Error(), d.Log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
