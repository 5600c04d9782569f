package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
	"github.com/shoplite/pos-backend/internal/cfg"
	"github.com/shoplite/pos-backend/internal/repository/redis/converter"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/shoplite/pos-backend/pkg/logger"
)

// CacheRepo кэширует посчитанную статистику по окнам.
// Все ошибки кэша некритичны: чтение статистики всегда может уйти в БД.
type CacheRepo struct {
	client *r.Client
	conv   converter.StatsConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *r.Client, conv converter.StatsConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetStats возвращает статистику из кэша, (nil, nil) при промахе.
func (c *CacheRepo) GetStats(ctx context.Context, window string) (*usecase.Stats, error) {
	data, err := c.client.Get(ctx, c.statsKey(window)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.StatsRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Stats cache unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, nil
	}

	if model.Window != window {
		c.logger.Warnf("Stats cache window mismatch: key: %s, model: %s", window, model.Window)
		if err := c.client.Del(ctx, c.statsKey(window)).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return c.conv.ToUseCase(&model), nil
}

// SetStats кэширует статистику окна с TTL из конфигурации.
func (c *CacheRepo) SetStats(ctx context.Context, stats *usecase.Stats) error {
	data, err := json.Marshal(c.conv.ToRedisModel(stats))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Set(ctx, c.statsKey(stats.Window), data, c.cfg.StatsTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// InvalidateStats сбрасывает кэш всех окон после любой записи.
func (c *CacheRepo) InvalidateStats(ctx context.Context) error {
	windows := []string{usecase.WindowToday, usecase.WindowWeek, usecase.WindowMonth, usecase.WindowAll}

	keys := make([]string, 0, len(windows))
	for _, w := range windows {
		keys = append(keys, c.statsKey(w))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) statsKey(window string) string {
	return fmt.Sprintf("stats:%s", window)
}

// NewClient создает клиент Redis по конфигурации.
func NewClient(cfg *cfg.RedisCfg) *r.Client {
	return r.NewClient(&r.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
}
