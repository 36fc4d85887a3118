package redis_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/redis/go-redis/v9"
)

const (
	fieldUserID  = "user_id"
	fieldCart    = "cart"
	fieldFlashes = "flashes"
)

// SessionRepo session 存成 hash: session:<id> -> user_id / cart / flashes
type SessionRepo struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func generateSessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (r *SessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	fields, err := r.client.HGetAll(ctx, generateSessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if len(fields) == 0 {
		return nil, repository.ErrSessionNotFound
	}

	session := model.NewSession(id)
	if raw, ok := fields[fieldUserID]; ok && raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user_id in session %s: %w", id, err)
		}
		session.UserID = uint(userID)
	}
	if raw, ok := fields[fieldCart]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Cart); err != nil {
			return nil, fmt.Errorf("invalid cart in session %s: %w", id, err)
		}
	}
	if session.Cart == nil {
		session.Cart = model.Cart{}
	}
	if raw, ok := fields[fieldFlashes]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Flashes); err != nil {
			return nil, fmt.Errorf("invalid flashes in session %s: %w", id, err)
		}
	}
	return session, nil
}

// Save 整份覆寫並刷新 ttl
func (r *SessionRepo) Save(ctx context.Context, session *model.Session, ttl time.Duration) error {
	cart, err := json.Marshal(session.Cart.Clone())
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	flashes := session.Flashes
	if flashes == nil {
		flashes = []model.Flash{}
	}
	flashBytes, err := json.Marshal(flashes)
	if err != nil {
		return fmt.Errorf("failed to marshal flashes: %w", err)
	}

	key := generateSessionKey(session.ID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldUserID, session.UserID,
			fieldCart, string(cart),
			fieldFlashes, string(flashBytes),
		)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, generateSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

var _ repository.ISessionRepository = (*SessionRepo)(nil)
