package like

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quangdng/go-shop-api/internal/httputil"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/requestctx"
)

// Handler contains HTTP handlers for likes
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest represents the like creation body
type CreateRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

// Create handles liking a product
// @Summary      Like a product
// @Tags         likes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Product to like"
// @Success      201 {object} Like
// @Failure      409 {object} httputil.ErrorResponse "Already liked"
// @Router       /likes [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := requestctx.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == uuid.Nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	l := &Like{UserID: userID, ProductID: req.ProductID}

	if err := h.repo.Create(r.Context(), l); err != nil {
		if errors.Is(err, ErrDuplicate) {
			httputil.RespondErrorWithCode(w, "product already liked", httputil.CodeValidationFailed, http.StatusConflict)
			return
		}
		logger.Error("failed to create like", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to like product", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, l, http.StatusCreated)
}

// Delete handles unliking a product
// @Summary      Remove a like
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Like ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /likes/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := requestctx.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid like id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "like not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete like", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to remove like", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "like removed"}, http.StatusOK)
}

// ListMine handles listing the caller's likes
// @Summary      List my likes
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Like
// @Router       /likes [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := requestctx.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	likes, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list likes", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list likes", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, likes, http.StatusOK)
}
