package handler

import (
	"encoding/json"
	"net/http"

	"retail-insights/internal/auth"
	"retail-insights/internal/domain"
	"retail-insights/pkg/router"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max_bytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a user account
// @Summary Register
// @Description Create a dashboard user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "New user"
// @Success 201 {object} Response{data=model.User}
// @Failure 400 {object} Response "Invalid request payload"
// @Failure 409 {object} Response "E-mail already registered"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	CreatedResponse(w, u)
}

// Login exchanges credentials for a bearer token
// @Summary Login
// @Description Returns a signed token and the user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} Response{data=auth.Session}
// @Failure 400 {object} Response "Invalid request payload"
// @Failure 401 {object} Response "Invalid email or password"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	session, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	SuccessResponse(w, session)
}

// Me returns the authenticated user
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=model.User}
// @Failure 401 {object} Response "Missing or invalid token"
// @Router /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		ErrorResponse(w, r, domain.NewUnauthorizedError("authentication required"))
		return
	}
	SuccessResponse(w, u)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// user in the request context.
func (h *Handler) RequireAuth(next router.HandlerFunc) router.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		if !ok {
			ErrorResponse(w, r, domain.NewUnauthorizedError("authentication required"))
			return
		}
		u, err := h.Auth.Authenticate(r.Context(), token)
		if err != nil {
			ErrorResponse(w, r, err)
			return
		}
		next(w, r.WithContext(auth.WithUser(r.Context(), u)))
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		ErrorResponse(w, r, domain.NewInvalidInputError("Invalid JSON payload"))
		return false
	}
	if err := h.Validator.Validate(dst); err != nil {
		ErrorResponse(w, r, err)
		return false
	}
	return true
}
