package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// 登出时按 jti 拉黑当前 Token，TTL 取 Token 剩余有效期。
// Redis 不可用时退化为进程内黑名单，重启后依赖 Token 自然过期。

var (
	localDenyMu   sync.RWMutex
	localDenylist = map[string]time.Time{}
)

func tokenDenyKey(jti string) string {
	return fmt.Sprintf("auth:deny:%s", jti)
}

// DenyToken 将指定 jti 加入黑名单
func DenyToken(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if Enabled() {
		return SetFlag(ctx, tokenDenyKey(jti), ttl)
	}
	localDenyMu.Lock()
	defer localDenyMu.Unlock()
	localDenylist[jti] = time.Now().Add(ttl)
	return nil
}

// IsTokenDenied 判断 jti 是否已被拉黑
func IsTokenDenied(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	if Enabled() {
		return HasFlag(ctx, tokenDenyKey(jti))
	}
	localDenyMu.RLock()
	expiresAt, ok := localDenylist[jti]
	localDenyMu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(expiresAt) {
		localDenyMu.Lock()
		delete(localDenylist, jti)
		localDenyMu.Unlock()
		return false, nil
	}
	return true, nil
}
