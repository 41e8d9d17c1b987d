package comment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quangdng/go-shop-api/internal/httputil"
	"github.com/quangdng/go-shop-api/internal/logging"
	"github.com/quangdng/go-shop-api/internal/requestctx"
)

// Handler contains HTTP handlers for comments, including the admin
// moderation endpoints.
type Handler struct {
	repo   *Repository
	logger *logging.Logger
}

func NewHandler(repo *Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateRequest represents the comment creation body
type CreateRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Content   string    `json:"content"`
}

// Create handles posting a comment
// @Summary      Post a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Comment fields"
// @Success      201 {object} Comment
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /comments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := requestctx.UserID(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.ProductID == uuid.Nil || strings.TrimSpace(req.Content) == "" {
		httputil.RespondErrorWithCode(w, "product_id and content are required", httputil.CodeValidationFailed, http.StatusUnprocessableEntity)
		return
	}

	c := &Comment{
		UserID:    userID,
		ProductID: req.ProductID,
		Content:   strings.TrimSpace(req.Content),
	}

	if err := h.repo.Create(r.Context(), c); err != nil {
		logger.Error("failed to create comment", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to post comment", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, c, http.StatusCreated)
}

// ListByProduct handles listing a product's comments
// @Summary      List comments for a product
// @Tags         comments
// @Produce      json
// @Param        productID path string true "Product ID"
// @Success      200 {array} Comment
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /products/{productID}/comments [get]
func (h *Handler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid product id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	comments, err := h.repo.ListByProduct(r.Context(), productID)
	if err != nil {
		logger.Error("failed to list product comments", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list comments", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, comments, http.StatusOK)
}

// AdminList handles the moderation listing
// @Summary      List all comments (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Comment
// @Failure      403 {object} httputil.ErrorResponse
// @Router       /admin/comments [get]
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	comments, err := h.repo.ListAll(r.Context())
	if err != nil {
		logger.Error("failed to list comments", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list comments", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, comments, http.StatusOK)
}

// AdminDelete handles moderation deletes
// @Summary      Delete any comment (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /admin/comments/{id} [delete]
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid comment id", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "comment not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete comment", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete comment", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("comment deleted by admin", "comment_id", id)

	httputil.RespondJSON(w, map[string]string{"message": "comment deleted"}, http.StatusOK)
}
