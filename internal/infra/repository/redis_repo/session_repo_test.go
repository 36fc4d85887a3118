package redis_repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testRedisAddr = "localhost:6379"
)

type SessionRepoTestSuite struct {
	suite.Suite
	client *redis.Client
	repo   *SessionRepo
}

func (suite *SessionRepoTestSuite) SetupSuite() {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = testRedisAddr
	}
	suite.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
		DB:       1, // 用測試DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := suite.client.Ping(ctx).Err(); err != nil {
		suite.T().Skipf("redis not available: %v", err)
	}
	suite.repo = NewSessionRepo(suite.client)
}

func (suite *SessionRepoTestSuite) SetupTest() {
	suite.client.FlushDB(context.Background())
}

func (suite *SessionRepoTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.client.Close()
	}
}

func TestSessionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(SessionRepoTestSuite))
}

func (suite *SessionRepoTestSuite) TestSaveAndGet() {
	ctx := context.Background()
	s := model.NewSession("abc")
	s.UserID = 7
	s.Cart.Add("1", 2)
	s.Cart.Add("3", 1)
	s.Flashes = append(s.Flashes, model.Flash{Category: model.FlashSuccess, Message: "Added to cart"})

	require.NoError(suite.T(), suite.repo.Save(ctx, s, time.Hour))

	got, err := suite.repo.Get(ctx, "abc")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "abc", got.ID)
	require.EqualValues(suite.T(), 7, got.UserID)
	require.Equal(suite.T(), model.Cart{"1": 2, "3": 1}, got.Cart)
	require.Len(suite.T(), got.Flashes, 1)

	ttl, err := suite.client.TTL(ctx, generateSessionKey("abc")).Result()
	require.NoError(suite.T(), err)
	require.Greater(suite.T(), ttl, 59*time.Minute)
}

func (suite *SessionRepoTestSuite) TestEmptyCartRoundTrip() {
	ctx := context.Background()
	s := model.NewSession("empty")
	require.NoError(suite.T(), suite.repo.Save(ctx, s, time.Minute))

	got, err := suite.repo.Get(ctx, "empty")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), got.Cart)
	require.True(suite.T(), got.Cart.IsEmpty())
	require.False(suite.T(), got.IsAuthenticated())
}

func (suite *SessionRepoTestSuite) TestNotFoundAndDelete() {
	ctx := context.Background()
	_, err := suite.repo.Get(ctx, "missing")
	require.ErrorIs(suite.T(), err, repository.ErrSessionNotFound)

	require.NoError(suite.T(), suite.repo.Save(ctx, model.NewSession("gone"), time.Minute))
	require.NoError(suite.T(), suite.repo.Delete(ctx, "gone"))
	_, err = suite.repo.Get(ctx, "gone")
	require.ErrorIs(suite.T(), err, repository.ErrSessionNotFound)
}
