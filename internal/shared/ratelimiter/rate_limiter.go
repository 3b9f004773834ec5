package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiterは、ログイン試行などの操作の頻度を固定ウィンドウで制限します。
type RateLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count     int
	lastReset time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
	}
}

// Allow はキー（クライアントIPなど）ごとに上限内かを判定します。
// 上限超過の場合はfalseを返します。HTTPミドルウェアから呼ばれるため待機はしません。
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok {
		w = &window{lastReset: now}
		rl.windows[key] = w
	}

	// interval を過ぎたらカウントリセット
	if now.Sub(w.lastReset) >= rl.interval {
		w.count = 0
		w.lastReset = now
		rl.prune(now)
	}

	w.count++
	return w.count <= rl.limit
}

// prune は期限切れウィンドウを破棄してマップの肥大化を防ぎます。
// 呼び出し側でロック取得済みであることが前提です。
func (rl *RateLimiter) prune(now time.Time) {
	for k, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, k)
		}
	}
}
