package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/google/uuid"
)

type ISessionService interface {
	Load(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Flash(ctx context.Context, session *model.Session, category, message string) error
	PopFlashes(ctx context.Context, session *model.Session) ([]model.Flash, error)
	Login(ctx context.Context, session *model.Session, userID uint) error
	Logout(ctx context.Context, session *model.Session) error
}

type SessionService struct {
	repo repository.ISessionRepository
	ttl  time.Duration
}

func NewSessionService(repo repository.ISessionRepository, ttl time.Duration) ISessionService {
	if repo == nil {
		panic("session repository is nil")
	}
	return &SessionService{
		repo: repo,
		ttl:  ttl,
	}
}

// Load 找不到或 id 為空時建立新的 session, 尚未寫入 store
func (s *SessionService) Load(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return model.NewSession(uuid.New().String()), nil
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return model.NewSession(uuid.New().String()), nil
		}
		return nil, err
	}
	if session.Cart == nil {
		session.Cart = model.Cart{}
	}
	return session, nil
}

func (s *SessionService) Save(ctx context.Context, session *model.Session) error {
	return s.repo.Save(ctx, session, s.ttl)
}

func (s *SessionService) Flash(ctx context.Context, session *model.Session, category, message string) error {
	session.Flashes = append(session.Flashes, model.Flash{Category: category, Message: message})
	return s.Save(ctx, session)
}

// PopFlashes 取出並清空, 只有真的有訊息時才回寫
func (s *SessionService) PopFlashes(ctx context.Context, session *model.Session) ([]model.Flash, error) {
	if len(session.Flashes) == 0 {
		return []model.Flash{}, nil
	}
	flashes := session.Flashes
	session.Flashes = nil
	if err := s.Save(ctx, session); err != nil {
		session.Flashes = flashes
		return nil, err
	}
	return flashes, nil
}

func (s *SessionService) Login(ctx context.Context, session *model.Session, userID uint) error {
	session.UserID = userID
	return s.Save(ctx, session)
}

// Logout 只清掉登入狀態, 購物車保留
func (s *SessionService) Logout(ctx context.Context, session *model.Session) error {
	session.UserID = 0
	return s.Save(ctx, session)
}

var _ ISessionService = (*SessionService)(nil)
