package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"blogapi/internal/auth"
	"blogapi/internal/middleware"
	"blogapi/internal/users"
)

type UsersHandler struct {
	svc    *users.Service
	logger *slog.Logger
}

func NewUsersHandler(svc *users.Service, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{
		svc:    svc,
		logger: logger,
	}
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (h *UsersHandler) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}

		errs := make(map[string]string)
		if req.FirstName == "" {
			errs["firstName"] = "required"
		}
		if req.LastName == "" {
			errs["lastName"] = "required"
		}
		if req.Email == "" {
			errs["email"] = "required"
		}
		if req.Password == "" {
			errs["password"] = "required"
		}
		if len(errs) > 0 {
			writeValidationError(w, errs)
			return
		}

		user, pair, err := h.svc.Signup(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, users.ErrEmailExists) {
				writeError(w, http.StatusConflict, "CONFLICT", "email already registered", nil)
				return
			}
			h.logger.Error("signup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"user":   user,
			"tokens": pair,
		})
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UsersHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}

		user, pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, users.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password", nil)
				return
			}
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user":   user,
			"tokens": pair,
		})
	}
}

func (h *UsersHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
			return
		}

		user, err := h.svc.Profile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
				return
			}
			h.logger.Error("get profile failed", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	}
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *UsersHandler) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
			return
		}
		if req.RefreshToken == "" {
			writeValidationError(w, map[string]string{"refreshToken": "required"})
			return
		}

		pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired refresh token", nil)
				return
			}
			h.logger.Error("refresh failed", "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"tokens": pair})
	}
}
