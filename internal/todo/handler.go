package todo

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/entity"
	todorepo "github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/todo/repo"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/utilities"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Handler exposes HTTP endpoints for todo CRUD. All endpoints expect the
// auth middleware to have stored the user id in the request context.
type Handler struct {
	svc      *TodoService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewHandler(svc *TodoService, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// CreateRequest request body for creating a todo. Title emptiness is
// checked separately so it maps to MISSING_TITLE rather than a generic
// validation failure.
type CreateRequest struct {
	Title       string `json:"title" validate:"max=255"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateRequest request body for a partial todo update. Pointer fields
// distinguish "absent" from zero values.
type UpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsDone      *bool   `json:"is_done"`
}

// Pagination is the list envelope metadata.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResponse is the paginated list envelope.
type ListResponse struct {
	Data       []entity.Todo `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Unauthorized", "NO_USER_ID")
		return
	}
	page := defaultPage
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			utilities.WriteError(w, http.StatusBadRequest, "Page must be a valid number greater than 0", "INVALID_PAGE")
			return
		}
		page = n
	}
	limit := defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			utilities.WriteError(w, http.StatusBadRequest, "Limit must be a valid number between 1 and 100", "INVALID_LIMIT")
			return
		}
		limit = n
	}

	todos, total, err := h.svc.Paginate(r.Context(), userID, page, limit)
	if err != nil {
		h.logger.Errorw("list todos failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	totalPages := (total + limit - 1) / limit
	utilities.WriteJSON(w, http.StatusOK, ListResponse{
		Data: todos,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Unauthorized", "NO_USER_ID")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utilities.WriteError(w, http.StatusNotFound, "Todo not found", "TODO_NOT_FOUND")
		return
	}
	t, err := h.svc.Get(r.Context(), id, userID)
	if err != nil {
		h.writeTodoError(w, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Unauthorized", "NO_USER_ID")
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			utilities.WriteError(w, http.StatusBadRequest, "Request body is required", "MISSING_BODY")
			return
		}
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	t, err := h.svc.Create(r.Context(), req.Title, req.Description, userID)
	if err != nil {
		if errors.Is(err, ErrMissingTitle) {
			utilities.WriteError(w, http.StatusBadRequest, "Title is required and cannot be empty", "MISSING_TITLE")
			return
		}
		h.logger.Errorw("create todo failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Unauthorized", "NO_USER_ID")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utilities.WriteError(w, http.StatusNotFound, "Todo not found", "TODO_NOT_FOUND")
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	t, err := h.svc.Update(r.Context(), id, userID, todorepo.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		IsDone:      req.IsDone,
	})
	if err != nil {
		h.writeTodoError(w, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Unauthorized", "NO_USER_ID")
		return
	}
	id, err := pathID(r)
	if err != nil {
		utilities.WriteError(w, http.StatusNotFound, "Todo not found", "TODO_NOT_FOUND")
		return
	}
	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		h.writeTodoError(w, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}

func (h *Handler) writeTodoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrTodoNotFound) {
		utilities.WriteError(w, http.StatusNotFound, "Todo not found", "TODO_NOT_FOUND")
		return
	}
	h.logger.Errorw("todo operation failed", "err", err)
	utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
