package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/infrastructure/cache"
	"clinic-operations/internal/service"
	"clinic-operations/pkg/apperror"
	"clinic-operations/pkg/jwt"
	"clinic-operations/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	PrincipalKey contextKey = "principal"
	TokenIDKey   contextKey = "token_id"
)

// AuthCookieName is the cookie browsers send the access token in.
const AuthCookieName = "auth-token"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokens     cache.TokenRegistry
	resolver   service.PrincipalResolver
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokens cache.TokenRegistry, resolver service.PrincipalResolver, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokens:     tokens,
		resolver:   resolver,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}
		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		active, err := m.tokens.IsActive(r.Context(), claims.TokenID)
		if err != nil {
			m.log.Warnf("Failed to check token %s: %+v", claims.TokenID, err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !active {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		principal, err := m.resolver.Resolve(r.Context(), claims)
		if err != nil {
			if apperror.KindOf(err) == apperror.KindUnauthorized {
				response.Unauthorized(w, err.Error())
				return
			}
			response.InternalServerError(w, "Failed to resolve principal")
			return
		}

		ctx := WithPrincipal(r.Context(), principal)
		ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// auth cookie.
func bearerToken(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p *entity.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// GetPrincipalFromContext extracts the authenticated principal from context
func GetPrincipalFromContext(ctx context.Context) (*entity.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*entity.Principal)
	return p, ok && p != nil
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}
