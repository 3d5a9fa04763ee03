package service

import (
	"context"
	"encoding/json"
	"time"

	"go-sysadmin/internal/domain/model"
	"go-sysadmin/internal/pkg/cache"
)

const configCacheTTL = 60 * time.Second

// ConfigStore 参数配置存储语义，由 dao.SysConfigDAO 实现。
type ConfigStore interface {
	SelectByKey(ctx context.Context, key string) (*model.SysConfig, error)
}

type ConfigService struct {
	Store ConfigStore
	Cache cache.Cache
}

func NewConfigService(s ConfigStore) *ConfigService {
	return &ConfigService{Store: s, Cache: cache.NewMemory(configCacheTTL)}
}

func NewConfigServiceWithCache(s ConfigStore, c cache.Cache) *ConfigService {
	return &ConfigService{Store: s, Cache: c}
}

// GetByKey 按 config_key 取参数；不存在返回 nil, nil。
func (s *ConfigService) GetByKey(ctx context.Context, key string) (*model.SysConfig, error) {
	ck := "config:key:" + key
	if s.Cache != nil {
		if v, _ := s.Cache.Get(ctx, ck); v != "" {
			var c model.SysConfig
			if json.Unmarshal([]byte(v), &c) == nil {
				return &c, nil
			}
		}
	}
	c, err := s.Store.SelectByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if c != nil && s.Cache != nil {
		if b, err2 := json.Marshal(c); err2 == nil {
			_ = s.Cache.SetEX(ctx, ck, string(b), configCacheTTL)
		}
	}
	return c, nil
}

// GetValueByKey 只取参数值，未配置返回空串。
func (s *ConfigService) GetValueByKey(ctx context.Context, key string) (string, error) {
	c, err := s.GetByKey(ctx, key)
	if err != nil || c == nil {
		return "", err
	}
	return c.ConfigValue, nil
}
