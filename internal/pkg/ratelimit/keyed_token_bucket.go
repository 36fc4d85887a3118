package ratelimit

import (
	"context"
	"sync"
	"time"
)

// KeyedTokenBucket 單機版, 每個 key 一個 bucket, 取用時才補 token
// 閒置超過 idleTTL 的 bucket 由背景清掉
type KeyedTokenBucket struct {
	LimiterConfig
	mu      sync.Mutex
	buckets map[string]*keyedBucket
	now     func() time.Time
	idleTTL time.Duration
	cancel  chan struct{}
	once    sync.Once
}

type keyedBucket struct {
	tokens       int
	lastRefilled time.Time
}

/*
請使用 defer 呼叫 Stop()
*/
func NewKeyedTokenBucket(config *LimiterConfig) *KeyedTokenBucket {
	k := &KeyedTokenBucket{
		buckets: map[string]*keyedBucket{},
		now:     time.Now,
		cancel:  make(chan struct{}),
	}
	if config != nil {
		k.LimiterConfig = *config
	} else {
		k.LimiterConfig = GetDefaultLimiterConfig()
	}
	k.normalize()

	// bucket 補滿所需時間, 超過就等同新的 bucket
	k.idleTTL = time.Duration(k.Capacity/k.RatePS+1) * time.Second
	go k.background()
	return k
}

func (k *KeyedTokenBucket) Allow(ctx context.Context, key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	b, ok := k.buckets[key]
	if !ok {
		b = &keyedBucket{tokens: k.Capacity, lastRefilled: now}
		k.buckets[key] = b
	}
	k.refill(b, now)

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (k *KeyedTokenBucket) refill(b *keyedBucket, now time.Time) {
	perToken := time.Second / time.Duration(k.RatePS)
	tokens := int(now.Sub(b.lastRefilled) / perToken)
	if tokens <= 0 {
		return
	}
	b.tokens = min(b.tokens+tokens, k.Capacity)
	b.lastRefilled = b.lastRefilled.Add(time.Duration(tokens) * perToken)
}

func (k *KeyedTokenBucket) evictIdle() {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	for key, b := range k.buckets {
		if now.Sub(b.lastRefilled) > k.idleTTL {
			delete(k.buckets, key)
		}
	}
}

func (k *KeyedTokenBucket) background() {
	ticker := time.NewTicker(k.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-k.cancel:
			return
		case <-ticker.C:
			k.evictIdle()
		}
	}
}

func (k *KeyedTokenBucket) Stop() {
	k.once.Do(func() {
		close(k.cancel)
	})
}

var _ ILimiter = (*KeyedTokenBucket)(nil)
