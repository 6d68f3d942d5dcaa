package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sweeplab/minesweeper-server/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

// Auth parses the split auth cookies into player claims and stores
// them on the request context. Requests without valid cookies pass
// through anonymously, with the stale cookies cleared.
func Auth(log *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParsePlayerClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			log.Debug("authenticated request", slog.String("username", claims.Username))
			ctx := context.WithValue(r.Context(), CtxPlayerClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PlayerClaims pulls the claims Auth stored, if any.
func PlayerClaims(r *http.Request) (*config.PlayerClaims, bool) {
	claims, ok := r.Context().Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}
