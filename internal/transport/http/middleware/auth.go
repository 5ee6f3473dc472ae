package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/metrics"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/principal"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Authentication required"
	errForbidden    = "Access denied"
	errInternal     = "Internal server error"
)

type TokenValidator interface {
	Validate(raw string) (*token.Token, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// TempRoutes is the allow-list of routes on which a temp token grants
// TEMP_USER. Keys are "METHOD /registered/path".
type TempRoutes map[string]struct{}

func NewTempRoutes(routes ...string) TempRoutes {
	tr := make(TempRoutes, len(routes))
	for _, r := range routes {
		tr[r] = struct{}{}
	}
	return tr
}

func (tr TempRoutes) allows(method, fullPath string) bool {
	if fullPath == "" {
		return false
	}
	_, ok := tr[method+" "+fullPath]
	return ok
}

// Authenticate resolves an optional Bearer token into a request principal.
// It never rejects a request on token grounds: a missing, malformed,
// expired, or out-of-scope token all leave the request unauthenticated, and
// RequireAuth decides whether the route needs a principal.
func Authenticate(tokens TokenValidator, users UserFinder, tempRoutes TempRoutes, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "authenticator")

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthenticationsTotal.WithLabelValues("anonymous").Inc()
			c.Next()
			return
		}

		tok, err := tokens.Validate(raw)
		if err != nil {
			logger.DebugContext(c.Request.Context(), "bearer token rejected", "error", err)
			metrics.AuthenticationsTotal.WithLabelValues("invalid_token").Inc()
			c.Next()
			return
		}

		var role domain.Role
		switch tok.Kind {
		case token.KindAccess:
		case token.KindTemp:
			if !tempRoutes.allows(c.Request.Method, c.FullPath()) {
				metrics.AuthenticationsTotal.WithLabelValues("temp_out_of_scope").Inc()
				c.Next()
				return
			}
			role = domain.RoleTempUser
		default:
			metrics.AuthenticationsTotal.WithLabelValues("wrong_kind").Inc()
			c.Next()
			return
		}

		user, err := users.FindByID(c.Request.Context(), tok.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.AuthenticationsTotal.WithLabelValues("unknown_user").Inc()
				c.Next()
				return
			}
			logger.ErrorContext(c.Request.Context(), "load token subject", "user_id", tok.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				gin.H{"message": errInternal, "errorCode": "INTERNAL_SERVER_ERROR"})
			return
		}
		if role == "" {
			role = user.Role
		}

		ctx := principal.WithPrincipal(c.Request.Context(), &domain.Principal{User: user, Role: role})
		c.Request = c.Request.WithContext(ctx)
		metrics.AuthenticationsTotal.WithLabelValues("authenticated").Inc()
		c.Next()
	}
}

// RequireAuth rejects requests without a principal (401) or whose principal
// role is not listed (403).
func RequireAuth(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal.FromContext(c.Request.Context())
		if p == nil {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"message": errUnauthorized, "errorCode": string(domain.KindUnauthorized)})
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			gin.H{"message": errForbidden, "errorCode": string(domain.KindForbidden)})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// BearerToken is bearerToken for handlers that need the raw token itself.
func BearerToken(c *gin.Context) (string, bool) {
	return bearerToken(c.GetHeader("Authorization"))
}
