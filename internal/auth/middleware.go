package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

type contextKey string

const AdminIDKey contextKey = "admin_id"

// Security scheme names used in the OpenAPI document.
const (
	CookieScheme = "cookieAuth"
	APIKeyScheme = "apiKeyAuth"
)

// AdminSecurity marks an operation as admin-only.
var AdminSecurity = []map[string][]string{
	{CookieScheme: {}},
	{APIKeyScheme: {}},
}

func SecuritySchemes() map[string]*huma.SecurityScheme {
	return map[string]*huma.SecurityScheme{
		CookieScheme: {
			Type: "apiKey",
			In:   "cookie",
			Name: CookieName,
		},
		APIKeyScheme: {
			Type: "apiKey",
			In:   "header",
			Name: APIKeyHeader,
		},
	}
}

func AdminIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(AdminIDKey).(uint)
	return id, ok && id != 0
}

// Middleware authenticates every operation that declares a security
// requirement and stores the admin id in the request context. Sessions
// close to expiry get a fresh cookie.
func (h *AuthHandler) Middleware(api huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if op := ctx.Operation(); op == nil || len(op.Security) == 0 {
			next(ctx)
			return
		}

		adminID, refreshed, err := h.Authenticate(ctx.Context(), Credentials{
			Cookie: ctx.Header("Cookie"),
			APIKey: ctx.Header(APIKeyHeader),
		})
		if err != nil {
			msg := "Unauthorized: " + err.Error()
			switch {
			case errors.Is(err, errNoCredentials):
				msg = "Unauthorized: No token found"
			case errors.Is(err, errInvalidToken), errors.Is(err, errExpiredKey), errors.Is(err, errUnknownKey):
			default:
				zerolog.Ctx(ctx.Context()).Error().Err(err).Msg("authentication failed")
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "Authentication failed")
				return
			}
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, msg)
			return
		}

		if refreshed != nil {
			ctx.AppendHeader("Set-Cookie", refreshed.String())
		}

		next(huma.WithValue(ctx, AdminIDKey, adminID))
	}
}
