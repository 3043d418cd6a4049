package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/income-api/internal/errs"
	"github.com/deppfellow/income-api/internal/lib/token"
	"github.com/deppfellow/income-api/internal/server"
	"github.com/labstack/echo/v4"
)

// ClaimsKey stores the verified *token.Claims in Echo context.
const ClaimsKey = "auth_claims"

// Authenticator verifies a bearer token, including revocation.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*token.Claims, error)
}

type AuthMiddleware struct {
	server        *server.Server
	authenticator Authenticator
}

func NewAuthMiddleware(s *server.Server, authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server:        s,
		authenticator: authenticator,
	}
}

// RequireAuth is an Echo middleware that enforces bearer token authentication.
//
// High-level behavior:
//  1. Read "Authorization: Bearer <token>".
//  2. Verify signature, expiry, purpose and revocation via the Authenticator.
//  3. On failure return a 401 HTTPError for the global error handler.
//  4. On success store user_id and the claims into Echo context and
//     refresh the request-scoped logger with the user id.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		claims, err := auth.authenticator.Authenticate(c.Request().Context(), tokenString)
		if err != nil {
			GetLogger(c).Warn().
				Err(err).
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("could not authenticate request")

			return errs.NewUnauthorizedError("Unauthorized", false)
		}

		userID := strconv.FormatInt(claims.UserID, 10)
		c.Set(UserIDKey, userID)
		c.Set(ClaimsKey, claims)

		logger := GetLogger(c).With().Str("user_id", userID).Logger()
		setLogger(c, &logger)

		logger.Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tokenString = strings.TrimSpace(tokenString)
	return tokenString, tokenString != ""
}

// GetClaims returns the verified token claims, nil on unauthenticated routes.
func GetClaims(c echo.Context) *token.Claims {
	claims, _ := c.Get(ClaimsKey).(*token.Claims)
	return claims
}

// GetAuthUserID returns the authenticated user's id, 0 when there is none.
func GetAuthUserID(c echo.Context) int64 {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
