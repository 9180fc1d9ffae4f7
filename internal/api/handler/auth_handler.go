package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookline/booking-gateway/internal/core/ports"
	"github.com/bookline/booking-gateway/internal/core/service"
)

// AuthHandler terminates the admin login/logout surface and maintains the
// tenant session.
type AuthHandler struct {
	auth     ports.AuthAPI
	sessions *service.SessionManager
}

func NewAuthHandler(auth ports.AuthAPI, sessions *service.SessionManager) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	TaxID       string `json:"tax_id"       validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	FullName    string `json:"full_name"    validate:"required"`
	Password    string `json:"password"     validate:"required,min=6"`
	PhoneNumber string `json:"phone_number"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	SubjectID     string `json:"subject_id,omitempty"`
	Role          string `json:"role,omitempty"`
	TenantID      string `json:"tenant_id,omitempty"`
	TenantSlug    string `json:"tenant_slug,omitempty"`
	TenantName    string `json:"tenant_name,omitempty"`
}

// Login forwards credentials to the platform and establishes the scoped
// session from its answer.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	res, err := h.auth.Login(ctx, ports.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		return err
	}

	if err := h.sessions.Login(ctx, res.Token, res.TenantID, res.TenantSlug, res.TenantName); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.currentSession())
}

// Register forwards a tenant self-registration to the platform. No session
// is established; the new tenant logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "registered"})
}

// Logout tears the session down.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports the effective identity without exposing the token.
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.currentSession())
}

func (h *AuthHandler) currentSession() sessionResponse {
	sess := h.sessions.Current()
	return sessionResponse{
		Authenticated: sess.IsAuthenticated(),
		SubjectID:     sess.SubjectID,
		Role:          sess.Role,
		TenantID:      sess.TenantID,
		TenantSlug:    sess.TenantSlug,
		TenantName:    sess.TenantName,
	}
}
