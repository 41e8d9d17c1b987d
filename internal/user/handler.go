package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quangdng/go-shop-api/internal/config"
	"github.com/quangdng/go-shop-api/internal/httputil"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/requestctx"
)

// Store is the slice of persistence the user handlers need. *Repository
// satisfies it; tests provide an in-memory fake.
type Store interface {
	Search(ctx context.Context, term string) ([]*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, digest string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler contains HTTP handlers for user CRUD and search
type Handler struct {
	store      Store
	validation config.ValidationConfig
	bcryptCost int
	logger     *logging.Logger
}

func NewHandler(store Store, validation config.ValidationConfig, bcryptCost int, logger *logging.Logger) *Handler {
	return &Handler{
		store:      store,
		validation: validation,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// List handles user listing and search
// @Summary      List users
// @Description  List all users, or only those whose name or address contains the search term
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Substring to match against name or address"
// @Success      200 {array} User
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	term := r.URL.Query().Get("search")

	users, err := h.store.Search(r.Context(), term)
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, users, http.StatusOK)
}

// Get handles fetching a single user
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} User
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	u, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// Update handles profile updates
// @Summary      Update user
// @Description  Update profile fields; password is optional and replaced only when supplied. Users may edit themselves, admins anyone.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body Input true "Profile fields"
// @Success      200 {object} User
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Failure      422 {object} httputil.ErrorResponse
// @Router       /users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if !h.requesterMayModify(r, id) {
		httputil.RespondErrorWithCode(w, "not allowed to modify this user", httputil.CodeForbidden, http.StatusForbidden)
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		logger.Warn("invalid update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	// Password is optional on update
	if errs := in.Validate(h.validation, false); len(errs) > 0 {
		logger.Warn("update failed: validation errors", "error", errs.Error())
		httputil.RespondValidationErrors(w, errs)
		return
	}

	u, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	u.Name = in.Name
	u.Address = in.Address
	u.Phone = in.Phone
	u.Email = NormalizeEmail(in.Email)

	if err := h.store.UpdateProfile(r.Context(), u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			httputil.RespondValidationErrors(w, FieldErrors{{Field: "email", Message: "has already been taken"}})
			return
		}
		if errors.Is(err, ErrDuplicatePhone) {
			httputil.RespondValidationErrors(w, FieldErrors{{Field: "phone", Message: "has already been taken"}})
			return
		}
		logger.Error("failed to update user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	if in.Password != "" {
		digest, err := Digest(in.Password, h.bcryptCost)
		if err != nil {
			logger.Error("failed to hash password", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}
		if err := h.store.UpdatePassword(r.Context(), u.ID, digest); err != nil {
			logger.Error("failed to update password", "error", err.Error())
			httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}
	}

	logger.Info("user updated", "user_id", u.ID)

	httputil.RespondJSON(w, u, http.StatusOK)
}

// Delete handles account deletion with cascading removal of owned records
// @Summary      Delete user
// @Description  Delete a user together with their orders, likes and comments. Users may delete themselves, admins anyone.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if !h.requesterMayModify(r, id) {
		httputil.RespondErrorWithCode(w, "not allowed to delete this user", httputil.CodeForbidden, http.StatusForbidden)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete user", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user deleted", "user_id", id)

	httputil.RespondJSON(w, map[string]string{"message": "user deleted"}, http.StatusOK)
}

// requesterMayModify allows self-service and admin access. The admin flag
// comes from the auth middleware's context, same as the /admin gate.
func (h *Handler) requesterMayModify(r *http.Request, target uuid.UUID) bool {
	requesterID, ok := requestctx.UserID(r.Context())
	if !ok {
		return false
	}
	return requesterID == target || requestctx.IsAdmin(r.Context())
}
