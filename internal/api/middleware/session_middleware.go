package middleware

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
)

type SessionCookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SessionMiddleware 載入或建立 session 並放進 context, 每次都刷新 cookie
func SessionMiddleware(sessions service.ISessionService, cfg SessionCookieConfig) func(next http.Handler) http.Handler {
	if sessions == nil {
		panic("session service cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cookie, err := r.Cookie(cfg.Name); err == nil {
				id = cookie.Value
			}

			session, err := sessions.Load(r.Context(), id)
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load session")
				api.ErrorJSON(w, http.StatusInternalServerError, "Internal Server Error", nil)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.Name,
				Value:    session.ID,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(util.WithSession(r.Context(), session)))
		})
	}
}
