package ratelimit

import (
	"context"
)

type LimiterConfig struct {
	Capacity int
	RatePS   int // tokens/秒
}

func GetDefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Capacity: 20,
		RatePS:   1,
	}
}

func (l *LimiterConfig) normalize() {
	def := GetDefaultLimiterConfig()
	if l.Capacity <= 0 {
		l.Capacity = def.Capacity
	}
	if l.RatePS <= 0 {
		l.RatePS = def.RatePS
	}
}

// ILimiter key 由呼叫端決定 (例如 client ip)
type ILimiter interface {
	Allow(ctx context.Context, key string) bool
}
