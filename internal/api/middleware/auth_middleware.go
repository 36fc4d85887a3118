package middleware

import (
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/rs/zerolog"
)

const (
	loginPath = "/login"
	homePath  = "/"
)

// CurrentUserMiddleware session 內有 user id 時載入使用者
// 使用者已不存在視為未登入
func CurrentUserMiddleware(users service.IUserService) func(next http.Handler) http.Handler {
	if users == nil {
		panic("user service cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := util.GetSession(r.Context())
			if session == nil || !session.IsAuthenticated() {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUser(r.Context(), session.UserID)
			if err != nil {
				if !errors.Is(err, service.ErrUserNotFound) {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to load current user")
					api.ErrorJSON(w, http.StatusInternalServerError, "Internal Server Error", nil)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Uint("user_id", user.ID)
			})
			next.ServeHTTP(w, r.WithContext(util.WithCurrentUser(r.Context(), user)))
		})
	}
}

// 未登入導向登入頁
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := service.Authorize(util.GetCurrentUser(r.Context()), false); err != nil {
			api.Redirect(w, r, loginPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminMiddleware 非管理員顯示拒絕訊息並導回首頁, 未登入導向登入頁
func AdminMiddleware(sessions service.ISessionService) func(next http.Handler) http.Handler {
	if sessions == nil {
		panic("session service cannot be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := service.Authorize(util.GetCurrentUser(r.Context()), true)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, service.ErrUnauthorized):
				api.Redirect(w, r, loginPath)
			default:
				if session := util.GetSession(r.Context()); session != nil {
					if ferr := sessions.Flash(r.Context(), session, model.FlashDanger, "Admin access required"); ferr != nil {
						zerolog.Ctx(r.Context()).Error().Err(ferr).Msg("failed to save flash")
					}
				}
				api.Redirect(w, r, homePath)
			}
		})
	}
}
