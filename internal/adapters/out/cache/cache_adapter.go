package cache

import (
	"context"
	"sync"

	"github.com/autotaller/recepcion-agenda/internal/config"
	"github.com/autotaller/recepcion-agenda/internal/core/domain"
	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheAdapter история загруженных диапазонов агенды
type CacheAdapter struct {
	ranges *lru.Cache[domain.DateRange, domain.AgendaSnapshot]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	ranges, err := lru.New[domain.DateRange, domain.AgendaSnapshot](cfg.Cache.RangesSize)
	if err != nil {
		logger.Error("cache.ranges.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.RangesSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		ranges: ranges,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetRange(ctx context.Context, r domain.DateRange) (domain.AgendaSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.ranges.Get(r)
	if !exists {
		c.logger.Debug("cache.ranges.get.miss", out.LogFields{
			"range": r.String(),
		})
		return domain.AgendaSnapshot{}, false
	}

	c.logger.Debug("cache.ranges.get.hit", out.LogFields{
		"range":        r.String(),
		"appointments": len(entry.Appointments),
	})
	return entry.Clone(), true
}

func (c *CacheAdapter) StoreRange(ctx context.Context, snapshot domain.AgendaSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.ranges.store", out.LogFields{
		"range":        snapshot.Range.String(),
		"appointments": len(snapshot.Appointments),
	})

	snapshot.Stale = false
	c.ranges.Add(snapshot.Range, snapshot.Clone())
}

// InvalidateAll после записи сводки любого диапазона могли измениться
func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.ranges.invalidate", out.LogFields{
		"entries": c.ranges.Len(),
	})
	c.ranges.Purge()
}
