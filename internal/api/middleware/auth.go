package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/metrics"
	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
	"github.com/bookhive/library-api/pkg/logger"
)

// CookieName is the cookie carrying the session token.
const CookieName = "accessToken"

const userKey = "auth.user"

type userCtxKey struct{}

// IdentityResolver maps a verified token subject to its account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, username string) (*domain.User, error)
}

// Auth builds the authentication stage. The token is read from the
// accessToken cookie first, then from "Authorization: Bearer <token>".
// Every rejection surfaces to the client as the same domain.ErrUnauthorized.
func Auth(tokens ports.TokenService, accounts IdentityResolver) Stage {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return reject(c, "missing", nil)
		}

		identity, err := tokens.Verify(raw)
		if err != nil {
			return reject(c, rejectionReason(err), err)
		}

		ctx := c.Request().Context()
		user, err := accounts.ResolveIdentity(ctx, identity.Username)
		if errors.Is(err, domain.ErrUserNotFound) {
			return reject(c, "unknown_account", err)
		}
		if err != nil {
			return fmt.Errorf("resolve token identity: %w", err)
		}

		c.Set(userKey, user)
		c.SetRequest(c.Request().WithContext(context.WithValue(ctx, userCtxKey{}, user)))
		return nil
	}
}

// CurrentUser returns the account the auth stage attached to c.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userKey).(*domain.User)
	return user, ok && user != nil
}

// UserFromContext returns the account the auth stage attached to ctx.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*domain.User)
	return user, ok && user != nil
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}

func reject(c echo.Context, reason string, err error) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	logger.FromContext(c.Request().Context()).Debug().Err(err).Str("reason", reason).Msg("request rejected by auth")
	return domain.ErrUnauthorized
}
