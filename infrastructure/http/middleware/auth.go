package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/securematch/securematch/application/port/outbound"
	domainerr "github.com/securematch/securematch/domain/error"
	"github.com/securematch/securematch/infrastructure/http/response"
	"github.com/securematch/securematch/infrastructure/http/validator"
	"github.com/securematch/securematch/infrastructure/service/logger"
)

type authContextKey string

const AuthUserKey authContextKey = "auth_user"

// AuthMiddleware guards the operator surface with bearer tokens carrying
// role=internal. A nil token service disables the check (development only).
type AuthMiddleware struct {
	tokenService outbound.TokenService
	logger       logger.Logger
}

func NewAuthMiddleware(tokenService outbound.TokenService, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		logger:       log,
	}
}

func (m *AuthMiddleware) RequireInternal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.tokenService == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		traceID := logger.CorrelationIDFromContext(ctx)

		token, ok := bearerToken(r)
		if !ok {
			response.AppError(w, domainerr.ErrUnauthorized("Bearer token required"), traceID)
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			logger.LogSecurityEvent(ctx, m.logger, "operator_token_rejected", "MEDIUM", map[string]interface{}{
				"path":      r.URL.Path,
				"client_ip": getClientIP(r),
			})
			response.AppError(w, domainerr.ErrUnauthorized("Invalid or expired token"), traceID)
			return
		}

		if claims.Role != outbound.RoleInternal {
			logger.LogSecurityEvent(ctx, m.logger, "operator_role_denied", "MEDIUM", map[string]interface{}{
				"path":    r.URL.Path,
				"user_id": claims.UserID,
				"role":    claims.Role,
			})
			response.AppError(w, domainerr.ErrForbidden(""), traceID)
			return
		}

		ctx = context.WithValue(ctx, AuthUserKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, validator.ValidateJWT(token)
}

// GetUserClaims retrieves user claims from context
func GetUserClaims(ctx context.Context) *outbound.TokenClaims {
	if claims, ok := ctx.Value(AuthUserKey).(*outbound.TokenClaims); ok {
		return claims
	}
	return nil
}
