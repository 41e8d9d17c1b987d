package order

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quangdng/go-shop-api/internal/httputil"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/requestctx"
)

// Handler contains HTTP handlers for orders
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest represents the order creation body
type CreateRequest struct {
	TotalCents int64  `json:"total_cents"`
	ShipTo     string `json:"ship_to"`
}

// Create handles order placement
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Order fields"
// @Success      201 {object} Order
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /orders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := requestctx.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid order request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	var fieldErrs []map[string]string
	if req.TotalCents <= 0 {
		fieldErrs = append(fieldErrs, map[string]string{"field": "total_cents", "message": "must be positive"})
	}
	if req.ShipTo == "" {
		fieldErrs = append(fieldErrs, map[string]string{"field": "ship_to", "message": "is required"})
	}
	if len(fieldErrs) > 0 {
		httputil.RespondValidationErrors(w, fieldErrs)
		return
	}

	o := &Order{
		UserID:     userID,
		Status:     StatusPending,
		TotalCents: req.TotalCents,
		ShipTo:     req.ShipTo,
	}

	if err := h.repo.Create(r.Context(), o); err != nil {
		logger.Error("failed to create order", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create order", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("order created", "order_id", o.ID, "user_id", userID)

	httputil.RespondJSON(w, o, http.StatusCreated)
}

// ListMine handles listing the caller's orders
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Order
// @Router       /orders [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := requestctx.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	orders, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list orders", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list orders", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, orders, http.StatusOK)
}

// ListForUser handles listing another user's orders
// @Summary      List a user's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {array} Order
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /users/{id}/orders [get]
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	requesterID, ok := requestctx.UserID(r.Context())
	if !ok || requesterID != targetID {
		httputil.RespondErrorWithCode(w, "not allowed to view these orders", httputil.CodeForbidden, http.StatusForbidden)
		return
	}

	orders, err := h.repo.ListByUser(r.Context(), targetID)
	if err != nil {
		logger.Error("failed to list orders", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list orders", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, orders, http.StatusOK)
}
