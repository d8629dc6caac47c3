package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/travel-backoffice/ticket-inventory/internal/adapter/http/response"
	"github.com/travel-backoffice/ticket-inventory/internal/domain"
)

const (
	// OrganizationHeader carries the viewer tenant when tokens are opaque.
	OrganizationHeader = "X-Organization-ID"

	// DefaultOrgClaim is the JWT claim holding the viewer tenant.
	DefaultOrgClaim = "organization_id"

	sessionKey = "session"
)

// SessionConfig controls how the viewer session is read from a request.
type SessionConfig struct {
	// JWTSecret verifies HMAC-signed bearer tokens. When empty the token is
	// treated as opaque and the tenant comes from OrganizationHeader.
	JWTSecret string

	// OrgClaim names the claim holding the tenant id
	OrgClaim string
}

var errNoBearer = errors.New("missing bearer token")

// Session returns middleware that extracts the viewer session. Requests
// without a bearer token or a tenant are rejected with 401. The raw token is
// kept in the session and forwarded to the backend on every call.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.OrgClaim == "" {
		cfg.OrgClaim = DefaultOrgClaim
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return response.Unauthorized(c, response.MsgMissingSession)
			}

			var orgID domain.ID
			if cfg.JWTSecret != "" {
				orgID, err = organizationFromJWT(token, cfg)
				if err != nil {
					return response.Unauthorized(c, response.MsgInvalidToken)
				}
			} else {
				orgID = domain.ID(strings.TrimSpace(c.Request().Header.Get(OrganizationHeader)))
			}

			sess := domain.Session{OrganizationID: orgID, Token: token}
			if !sess.IsValid() {
				return response.Unauthorized(c, response.MsgMissingSession)
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// GetSession retrieves the session stored by the Session middleware.
func GetSession(c echo.Context) (domain.Session, bool) {
	sess, ok := c.Get(sessionKey).(domain.Session)
	return sess, ok
}

func bearerToken(c echo.Context) (string, error) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return "", errNoBearer
	}
	token := strings.TrimSpace(auth[7:])
	if token == "" {
		return "", errNoBearer
	}
	return token, nil
}

func organizationFromJWT(raw string, cfg SessionConfig) (domain.ID, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}

	switch v := claims[cfg.OrgClaim].(type) {
	case string:
		return domain.ID(strings.TrimSpace(v)), nil
	case float64:
		return domain.ID(strconv.FormatFloat(v, 'f', -1, 64)), nil
	default:
		return "", fmt.Errorf("claim %q missing", cfg.OrgClaim)
	}
}
