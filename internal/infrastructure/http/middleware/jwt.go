package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/claim"
	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/config"
	httperrors "github.com/roberto3101/LibroReclamacionesCodePlex/internal/infrastructure/http"
)

type contextKeyUser struct{}

// AuthUser is the identity extracted from a verified token.
type AuthUser struct {
	ID    string
	Email string
	Rol   claim.Role
}

// UserFromContext returns the authenticated staff identity, if any.
func UserFromContext(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(contextKeyUser{}).(AuthUser)
	return u, ok
}

// JWTAuthenticator issues and validates the HS256 tokens used by the
// admin panel. The service is its own issuer; the signing secret comes
// from configuration.
type JWTAuthenticator struct {
	cfg config.AuthSettings
	log *slog.Logger
}

func NewJWTAuthenticator(cfg config.AuthSettings, log *slog.Logger) *JWTAuthenticator {
	return &JWTAuthenticator{cfg: cfg, log: log}
}

// Issue signs a token for a staff account. The returned TTL is surfaced
// to the client as expires_in.
func (a *JWTAuthenticator) Issue(userID, email string, rol claim.Role) (string, time.Duration, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"rol":     string(rol),
		"iat":     now.Unix(),
		"exp":     now.Add(a.cfg.TokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, a.cfg.TokenTTL, nil
}

// Middleware enforces bearer-token authentication on inbound requests and
// places the staff identity in the request context.
func (a *JWTAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := extractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			httperrors.WriteError(w, http.StatusUnauthorized, "Token de autorización requerido", "", a.log)
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			return []byte(a.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			a.log.Warn("token validation failed", "error", err)
			httperrors.WriteError(w, http.StatusUnauthorized, "Token inválido o expirado", "", a.log)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperrors.WriteError(w, http.StatusUnauthorized, "Token inválido o expirado", "", a.log)
			return
		}

		user := AuthUser{
			ID:    stringClaim(claims, "user_id"),
			Email: stringClaim(claims, "email"),
			Rol:   claim.Role(stringClaim(claims, "rol")),
		}
		if user.ID == "" {
			httperrors.WriteError(w, http.StatusUnauthorized, "Token inválido o expirado", "", a.log)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route to callers holding the ADMIN role. It must run
// after Middleware.
func (a *JWTAuthenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			httperrors.WriteError(w, http.StatusUnauthorized, "Token de autorización requerido", "", a.log)
			return
		}
		if user.Rol != claim.RoleAdmin {
			httperrors.WriteError(w, http.StatusForbidden, "Requiere rol de administrador", "", a.log)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing Authorization header")
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header format")
	}
	return parts[1], nil
}
