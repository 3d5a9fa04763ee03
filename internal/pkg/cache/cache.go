package cache

import (
	"context"
	"sync"
	"time"
)

// Cache 统一缓存接口；value 一律 string，JSON 编解码在业务侧完成。
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEX(ctx context.Context, key, val string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// TTLFetcher 可选能力：返回 key 剩余 TTL，LayeredCache 回填 L1 时透传。
type TTLFetcher interface {
	RemainingTTL(ctx context.Context, key string) (time.Duration, bool)
}

type entry struct {
	val string
	exp time.Time
}

// Memory 进程内 L1，带默认 TTL，线程安全。
type Memory struct {
	mu         sync.RWMutex
	data       map[string]entry
	defaultTTL time.Duration
}

func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{data: make(map[string]entry), defaultTTL: defaultTTL}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || (!e.exp.IsZero() && time.Now().After(e.exp)) {
		return "", nil
	}
	return e.val, nil
}

func (m *Memory) SetEX(_ context.Context, key, val string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = entry{val: val, exp: exp}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Flush() {
	m.mu.Lock()
	m.data = make(map[string]entry)
	m.mu.Unlock()
}

func (m *Memory) RemainingTTL(_ context.Context, key string) (time.Duration, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok || e.exp.IsZero() || time.Now().After(e.exp) {
		return 0, false
	}
	return time.Until(e.exp), true
}
