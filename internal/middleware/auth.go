package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/pkg/jwt"
	"github.com/Joyanne05/fixit-my/internal/pkg/response"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	NameKey   contextKey = "name"
	AvatarKey contextKey = "avatar"
)

// Auth returns middleware that validates the bearer token and puts the
// caller's identity on the request context.
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.Validate(parts[1])
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, NameKey, claims.Name)
			ctx = context.WithValue(ctx, AvatarKey, claims.Avatar)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token
// is present and lets the request through either way. Used on public
// read endpoints that personalize their projections for signed-in users.
func OptionalAuth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				if claims, err := jwtService.Validate(parts[1]); err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
					ctx = context.WithValue(ctx, NameKey, claims.Name)
					ctx = context.WithValue(ctx, AvatarKey, claims.Avatar)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetName extracts the display name from context
func GetName(ctx context.Context) string {
	if name, ok := ctx.Value(NameKey).(string); ok {
		return name
	}
	return ""
}

// GetAvatar extracts the avatar URL from context
func GetAvatar(ctx context.Context) string {
	if avatar, ok := ctx.Value(AvatarKey).(string); ok {
		return avatar
	}
	return ""
}
