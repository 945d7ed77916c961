package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/pkg/utilities"
)

// Handler exposes HTTP endpoints for auth operations (register / login / profile).
type Handler struct {
	svc      *UserService
	tokens   *auth.TokenService
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewHandler(svc *UserService, tokens *auth.TokenService, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		svc:      svc,
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// RegisterRequest request body for the register endpoint.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest request body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is the envelope returned by register and login.
type AuthResponse struct {
	Message string             `json:"message"`
	Token   string             `json:"token"`
	User    *entity.PublicUser `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			utilities.WriteError(w, http.StatusBadRequest, "User already exists", "USER_EXISTS")
			return
		}
		h.logger.Errorw("register failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	utilities.WriteJSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    u,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "Validation error", "VALIDATION_ERROR")
		return
	}
	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			utilities.WriteError(w, http.StatusBadRequest, "Invalid credentials", "INVALID_CREDENTIALS")
			return
		}
		h.logger.Errorw("login failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    u,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		utilities.WriteError(w, http.StatusUnauthorized, "Unauthorized", "NO_USER_ID")
		return
	}
	u, err := h.svc.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utilities.WriteError(w, http.StatusNotFound, "User not found", "USER_NOT_FOUND")
			return
		}
		h.logger.Errorw("profile lookup failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}
