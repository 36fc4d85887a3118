package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisClient 介面定義
type RedisClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisTokenBucket 每個 key 一個 bucket, 多個 process 共用
type RedisTokenBucket struct {
	LimiterConfig
	client RedisClient
}

func NewRedisTokenBucket(client RedisClient, config *LimiterConfig) *RedisTokenBucket {
	rb := &RedisTokenBucket{
		client: client,
	}

	if config != nil {
		rb.LimiterConfig = *config
	} else {
		rb.LimiterConfig = GetDefaultLimiterConfig()
	}
	rb.normalize()

	return rb
}

const tokenBucketScript = `
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local rate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
	local currentTokens = tonumber(bucket[1])
	local lastRefill = tonumber(bucket[2])

	-- 第一次使用, 給滿
	if currentTokens == nil then
		currentTokens = capacity
		lastRefill = now
	end

	local elapsedSeconds = (now - lastRefill) / 1000000000
	currentTokens = math.min(capacity, currentTokens + elapsedSeconds * rate)

	local allowed = 0
	if currentTokens >= 1 then
		currentTokens = currentTokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', currentTokens, 'last_refill', now)
	-- 補滿所需時間之後自動過期
	redis.call('EXPIRE', key, math.ceil(capacity / rate) + 1)
	return allowed
`

// Allow redis 失敗時拒絕
func (r *RedisTokenBucket) Allow(ctx context.Context, key string) bool {
	result, err := r.client.Eval(
		ctx,
		tokenBucketScript,
		[]string{redisKeyPrefix + key},
		r.Capacity,
		r.RatePS,
		time.Now().UnixNano(),
	).Int64()
	if err != nil {
		return false
	}

	return result == 1
}

var _ ILimiter = (*RedisTokenBucket)(nil)
