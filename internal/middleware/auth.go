package middleware

import (
	"net/http"
	"strings"

	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/common"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"
)

// AuthMiddleware resolves the bearer token to a user row, provisioning a
// USER on first sight, and stores the principal in the request context.
func AuthMiddleware(tokens *auth.TokenProvider, users *repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondUnauthorized(w, "Unauthorized. Missing bearer token")
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondUnauthorized(w, "Unauthorized. "+err.Error())
				return
			}

			user, err := users.EnsureByExternalID(r.Context(), claims.Subject, claims.Name)
			if err != nil {
				logging.Error("failed to resolve principal", "subject", claims.Subject, "error", err)
				common.RespondUnauthorized(w, "Unauthorized. Unknown user")
				return
			}

			ctx := auth.SetPrincipal(r.Context(), &auth.Principal{
				UserID:     user.ID,
				ExternalID: user.ExternalID,
				SiteRole:   user.SiteRole,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
