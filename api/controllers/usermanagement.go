package controllers

import (
	"net/http"

	"github.com/angelmondragon/storecraft-backend/api/responses"
	"github.com/angelmondragon/storecraft-backend/api/validators"
	"github.com/angelmondragon/storecraft-backend/internal/usermanagement"
	pkgerrors "github.com/angelmondragon/storecraft-backend/pkg/errors"
	"github.com/angelmondragon/storecraft-backend/pkg/logger"
)

type roleAssignmentRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	RoleName string `json:"role_name" validate:"required,max=100"`
}

// AdminListUsers returns a cursor page of accounts.
func AdminListUsers(svc usermanagement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.PaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminGetUser returns one account by ID.
func AdminGetUser(svc usermanagement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.URLParamInt64(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminAssignRole grants a role to a user.
func AdminAssignRole(svc usermanagement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload roleAssignmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.AssignRole(r.Context(), payload.UserID, payload.RoleName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "role_assigned"})
	}
}

// AdminRemoveRole revokes a role from a user.
func AdminRemoveRole(svc usermanagement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload roleAssignmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveRole(r.Context(), payload.UserID, payload.RoleName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "role_removed"})
	}
}

// AdminSetUserActive flips the account's active flag. Deactivation also
// invalidates the user's outstanding sessions.
func AdminSetUserActive(svc usermanagement.Service, logg *logger.Logger, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user management service unavailable"))
			return
		}
		id, err := validators.URLParamInt64(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetUserActive(r.Context(), id, active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := "deactivated"
		if active {
			status = "activated"
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}
