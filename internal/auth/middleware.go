package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/customer-data-service/internal/apperrors"
	"github.com/sangkips/customer-data-service/internal/handlers"
)

type principalKey struct{}

// Middleware rejects any request that does not authenticate before the
// wrapped handler runs.
func Middleware(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if errors.Is(err, ErrCredentialsUnavailable) {
					log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("cannot authenticate request")
					handlers.RespondWithError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication is temporarily unavailable")
					return
				}

				reason := "invalid_credentials"
				if errors.Is(err, apperrors.ErrMalformedCredentials) {
					reason = "malformed_credentials"
				}
				log.Warn().
					Str("remote_addr", r.RemoteAddr).
					Str("path", r.URL.Path).
					Str("reason", reason).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("authentication failed")

				for _, c := range a.Challenges() {
					w.Header().Add("WWW-Authenticate", c)
				}
				handlers.RespondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authentication credentials")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
