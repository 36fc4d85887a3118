package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

var ErrSessionNotFound = errors.New("session not found")

// ISessionRepository session 存取, Save 會刷新 ttl
type ISessionRepository interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
