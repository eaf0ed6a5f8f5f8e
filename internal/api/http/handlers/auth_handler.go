package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/service"
)

// AuthHandler exposes the JSON authentication endpoints.
type AuthHandler struct {
	sessions sessions
	metrics  *observability.Metrics
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, metrics *observability.Metrics, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		sessions: sessions{auth: authService, secureCookie: secureCookie},
		metrics:  metrics,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	identity, err := h.sessions.auth.RegisterCredential(c.UserContext(), req.Email, req.Password, req.Name)
	h.metrics.RecordAuthAttempt("signup", outcome(err))
	if err != nil {
		return mapError(err)
	}
	return h.respondWithSession(c, http.StatusCreated, *identity)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	identity, err := h.sessions.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	h.metrics.RecordAuthAttempt("login", outcome(err))
	if err != nil {
		return mapError(err)
	}
	return h.respondWithSession(c, http.StatusOK, *identity)
}

// Logout handles POST /api/auth/logout. It always clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.end(c)
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return c.JSON(dto.SessionResponse{Authenticated: false})
	}
	user := userResponse(*identity)
	return c.JSON(dto.SessionResponse{Authenticated: true, User: &user})
}

func (h *AuthHandler) respondWithSession(c *fiber.Ctx, status int, identity domain.Identity) error {
	token, expiresAt, err := h.sessions.start(c, identity)
	if err != nil {
		return mapError(err)
	}
	return c.Status(status).JSON(dto.AuthResponse{
		User:      userResponse(identity),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
