package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/api/dto"
	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/domain"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/service"
	"github.com/spec-kit/chat-service/internal/web"
)

// PagesHandler serves the server-rendered pages and their form posts.
type PagesHandler struct {
	sessions      sessions
	profiles      *service.ProfileService
	conversations *service.ConversationService
	stats         *service.StatsService
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// PagesDependencies bundles the services the pages use.
type PagesDependencies struct {
	Auth          *service.AuthService
	Profiles      *service.ProfileService
	Conversations *service.ConversationService
	Stats         *service.StatsService
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	SecureCookie  bool
}

// NewPagesHandler constructs handler.
func NewPagesHandler(deps PagesDependencies) *PagesHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PagesHandler{
		sessions:      sessions{auth: deps.Auth, secureCookie: deps.SecureCookie},
		profiles:      deps.Profiles,
		conversations: deps.Conversations,
		stats:         deps.Stats,
		metrics:       deps.Metrics,
		logger:        logger,
	}
}

// Index handles GET /.
func (h *PagesHandler) Index(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); ok {
		return c.Redirect("/chat", http.StatusSeeOther)
	}
	return c.Redirect("/login", http.StatusSeeOther)
}

// LoginPage handles GET /login.
func (h *PagesHandler) LoginPage(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); ok {
		return c.Redirect("/chat", http.StatusSeeOther)
	}
	return c.Render("login", web.Page{Title: "Log in"})
}

// Login handles POST /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || dto.Validate(req) != nil {
		return h.renderStatus(c, http.StatusBadRequest, "login", web.Page{Title: "Log in", Error: "Email and password are required.", Data: req.Email})
	}

	identity, err := h.sessions.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	h.metrics.RecordAuthAttempt("login", outcome(err))
	if err != nil {
		return h.renderFailure(c, err, "login", web.Page{Title: "Log in", Data: req.Email})
	}
	return h.startAndRedirect(c, *identity, "login", web.Page{Title: "Log in", Data: req.Email})
}

// SignupPage handles GET /signup.
func (h *PagesHandler) SignupPage(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); ok {
		return c.Redirect("/chat", http.StatusSeeOther)
	}
	return c.Render("signup", web.Page{Title: "Sign up"})
}

// Signup handles POST /signup.
func (h *PagesHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderStatus(c, http.StatusBadRequest, "signup", web.Page{Title: "Sign up", Error: "Invalid form submission."})
	}
	form := dto.SignupRequest{Name: req.Name, Email: req.Email}
	if err := dto.Validate(req); err != nil {
		return h.renderStatus(c, http.StatusBadRequest, "signup", web.Page{Title: "Sign up", Error: "Name, a valid email and a password are required.", Data: form})
	}

	identity, err := h.sessions.auth.RegisterCredential(c.UserContext(), req.Email, req.Password, req.Name)
	h.metrics.RecordAuthAttempt("signup", outcome(err))
	if err != nil {
		return h.renderFailure(c, err, "signup", web.Page{Title: "Sign up", Data: form})
	}
	return h.startAndRedirect(c, *identity, "signup", web.Page{Title: "Sign up", Data: form})
}

// Logout handles POST /logout.
func (h *PagesHandler) Logout(c *fiber.Ctx) error {
	h.sessions.end(c)
	return c.Redirect("/login", http.StatusSeeOther)
}

// Chat handles GET /chat.
func (h *PagesHandler) Chat(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return c.Redirect("/login", http.StatusSeeOther)
	}
	history, err := h.conversations.History(c.UserContext(), identity.ID)
	if err != nil {
		return h.renderFailure(c, err, "chat", web.Page{Title: "Chat", User: identity})
	}
	return c.Render("chat", web.Page{Title: "Chat", User: identity, Data: history})
}

// Dashboard handles GET /dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return c.Redirect("/login", http.StatusSeeOther)
	}
	stats, err := h.stats.Dashboard(c.UserContext(), identity.ID)
	if err != nil {
		return h.renderFailure(c, err, "dashboard", web.Page{Title: "Dashboard", User: identity})
	}
	return c.Render("dashboard", web.Page{Title: "Dashboard", User: identity, Data: stats})
}

// ProfilePage handles GET /profile.
func (h *PagesHandler) ProfilePage(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return c.Redirect("/login", http.StatusSeeOther)
	}
	return c.Render("profile", web.Page{Title: "Profile", User: identity})
}

// UpdateProfile handles POST /profile. The cookie is reissued so the new name shows at once.
func (h *PagesHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return c.Redirect("/login", http.StatusSeeOther)
	}
	page := web.Page{Title: "Profile", User: identity}

	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		page.Error = "Invalid form submission."
		return h.renderStatus(c, http.StatusBadRequest, "profile", page)
	}

	updated, err := h.profiles.Update(c.UserContext(), identity.ID, req.Name, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return h.renderFailure(c, err, "profile", page)
	}
	if _, _, err := h.sessions.start(c, *updated); err != nil {
		return h.renderFailure(c, err, "profile", page)
	}
	page.User = updated
	page.Notice = "Profile updated."
	return c.Render("profile", page)
}

func (h *PagesHandler) startAndRedirect(c *fiber.Ctx, identity domain.Identity, view string, page web.Page) error {
	if _, _, err := h.sessions.start(c, identity); err != nil {
		return h.renderFailure(c, err, view, page)
	}
	return c.Redirect("/chat", http.StatusSeeOther)
}

func (h *PagesHandler) renderFailure(c *fiber.Ctx, err error, view string, page web.Page) error {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("page request failed", zap.String("view", view), zap.Error(err))
	}
	page.Error = errorMessage(err)
	return h.renderStatus(c, status, view, page)
}

func (h *PagesHandler) renderStatus(c *fiber.Ctx, status int, view string, page web.Page) error {
	return c.Status(status).Render(view, page)
}
