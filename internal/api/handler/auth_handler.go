package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/metrics"
	"github.com/bookhive/library-api/internal/api/middleware"
	"github.com/bookhive/library-api/internal/api/response"
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      409   {object}  errorEnvelope
// @Failure      500   {object}  errorEnvelope
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	res := validation.FromContext(c)

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: res.String("username"),
		Email:    res.String("email"),
		Fullname: res.String("fullname"),
		Password: res.String("password"),
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return response.JSON(c, http.StatusCreated, user, "User registered successfully")
}

// Login authenticates a user, sets the session cookie and returns the token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      401   {object}  errorEnvelope
// @Failure      429   {object}  errorEnvelope
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	res := validation.FromContext(c)

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:      res.String("email"),
		Password:   res.String("password"),
		RemoteAddr: c.RealIP(),
	})
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	c.SetCookie(h.sessionCookie(result.Token.Value, result.Token.ExpiresAt))
	return response.JSON(c, http.StatusOK, loginResponse{
		User:        result.User,
		AccessToken: result.Token.Value,
	}, "User logged in successfully")
}

// Logout clears the session cookie. Tokens stay valid until they expire.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if user, ok := middleware.CurrentUser(c); ok {
		h.authService.Logout(c.Request().Context(), user.Username, c.RealIP())
	}

	cookie := h.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
	return response.JSON(c, http.StatusOK, map[string]any{}, "User logged out")
}

// Me returns the signed-in account.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userEnvelope
// @Failure      401  {object}  errorEnvelope
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	return response.JSON(c, http.StatusOK, user, "Data fetched successfully")
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
