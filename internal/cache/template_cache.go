package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/CareScope-Clinic/assessment-service/internal/models"
)

// TemplateLoader fetches a fully assembled template (questions + options)
// from the backing store.
type TemplateLoader func(ctx context.Context, templateID uint) (*models.Template, error)

// TemplateCache is an in-process TTL cache in front of template reads.
// Templates are immutable after creation, so a short TTL only bounds
// memory, not staleness. Concurrent misses for the same template are
// collapsed through singleflight.
type TemplateCache struct {
	loader TemplateLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[uint]cachedTemplate
}

type cachedTemplate struct {
	template  *models.Template
	expiresAt time.Time
}

func NewTemplateCache(loader TemplateLoader, ttl time.Duration) *TemplateCache {
	return &TemplateCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		cache:  make(map[uint]cachedTemplate),
	}
}

func (c *TemplateCache) Get(ctx context.Context, templateID uint) (*models.Template, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[templateID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.template, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(strconv.FormatUint(uint64(templateID), 10), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[templateID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.template, nil
		}
		c.mu.RUnlock()

		template, err := c.loader(ctx, templateID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[templateID] = cachedTemplate{
			template:  template,
			expiresAt: now.Add(c.ttl),
		}
		c.mu.Unlock()

		return template, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*models.Template), nil
}

// Invalidate drops a cached template, used by the compensating deletes of
// an aborted creation.
func (c *TemplateCache) Invalidate(templateID uint) {
	c.mu.Lock()
	delete(c.cache, templateID)
	c.mu.Unlock()
}
