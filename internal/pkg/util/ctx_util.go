package util

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

func WithSession(ctx context.Context, session *model.Session) context.Context {
	return context.WithValue(ctx, constants.SessionKey, session)
}

// GetSession 沒經過 session middleware 時回傳 nil
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(constants.SessionKey).(*model.Session)
	return session
}

func WithCurrentUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, constants.CurrentUserKey, user)
}

// GetCurrentUser 未登入回傳 nil
func GetCurrentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(constants.CurrentUserKey).(*model.User)
	return user
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return "unknown"
}
