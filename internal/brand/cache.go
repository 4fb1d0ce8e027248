package brand

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/creative-engine/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a resolved identity stays fresh.
const DefaultCacheTTL = 90 * 24 * time.Hour

// Store is an optional second cache tier shared between processes.
type Store interface {
	Get(ctx context.Context, key string) (types.BrandIdentity, bool, error)
	Set(ctx context.Context, key string, identity types.BrandIdentity, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Loader materializes a fresh identity. The boolean reports whether the
// result may be cached.
type Loader func(ctx context.Context) (types.BrandIdentity, bool)

// flight is the shared load of one key. Its context is canceled once the
// last waiter leaves.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

type entry struct {
	identity types.BrandIdentity
	expires  time.Time
}

// Cache holds resolved brand identities keyed by normalized company name.
// It is constructed once per process and shared by reference.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group

	flightMu sync.Mutex
	flights  map[string]*flight

	ttl    time.Duration
	store  Store
	now    func() time.Time
	logger *zap.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides DefaultCacheTTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithStore adds a second cache tier.
func WithStore(store Store) CacheOption {
	return func(c *Cache) { c.store = store }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithCacheLogger sets the cache logger.
func WithCacheLogger(logger *zap.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		flights: make(map[string]*flight),
		ttl:     DefaultCacheTTL,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a fresh cached identity for the company.
func (c *Cache) Get(ctx context.Context, company string) (types.BrandIdentity, bool) {
	return c.get(ctx, NormalizeName(company))
}

func (c *Cache) get(ctx context.Context, key string) (types.BrandIdentity, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		if c.now().Before(e.expires) {
			return e.identity, true
		}
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && !c.now().Before(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	if c.store == nil {
		return types.BrandIdentity{}, false
	}
	identity, found, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("brand cache store read failed", zap.String("key", key), zap.Error(err))
		return types.BrandIdentity{}, false
	}
	if !found {
		return types.BrandIdentity{}, false
	}
	c.putLocal(key, identity)
	return identity, true
}

// Put stores an identity for the company.
func (c *Cache) Put(ctx context.Context, company string, identity types.BrandIdentity) {
	c.put(ctx, NormalizeName(company), identity)
}

func (c *Cache) put(ctx context.Context, key string, identity types.BrandIdentity) {
	c.putLocal(key, identity)
	if c.store != nil {
		if err := c.store.Set(ctx, key, identity, c.ttl); err != nil {
			c.logger.Warn("brand cache store write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (c *Cache) putLocal(key string, identity types.BrandIdentity) {
	c.mu.Lock()
	c.entries[key] = entry{identity: identity, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// GetOrLoad returns the cached identity or runs load. Concurrent callers for
// the same uncached company share a single load. A caller whose context ends
// first stops waiting and gets the context error; the shared load keeps
// running while other callers wait and is canceled when none remain.
func (c *Cache) GetOrLoad(ctx context.Context, company string, load Loader) (types.BrandIdentity, error) {
	key := NormalizeName(company)
	if identity, ok := c.get(ctx, key); ok {
		return identity, nil
	}

	f := c.join(ctx, key)
	defer c.leave(key, f)

	ch := c.group.DoChan(key, func() (any, error) {
		// Another flight may have finished between the miss above and here.
		if identity, ok := c.get(f.ctx, key); ok {
			return identity, nil
		}
		identity, cacheable := load(f.ctx)
		if cacheable && f.ctx.Err() == nil {
			c.put(f.ctx, key, identity)
		}
		return identity, nil
	})

	select {
	case res := <-ch:
		return res.Val.(types.BrandIdentity), nil
	case <-ctx.Done():
		return types.BrandIdentity{}, ctx.Err()
	}
}

func (c *Cache) join(ctx context.Context, key string) *flight {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	f, ok := c.flights[key]
	if !ok {
		flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: flightCtx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++
	return f
}

func (c *Cache) leave(key string, f *flight) {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	f.waiters--
	if f.waiters > 0 {
		return
	}
	if c.flights[key] == f {
		delete(c.flights, key)
	}
	f.cancel()
	// A canceled load may still be unwinding; later callers start afresh.
	c.group.Forget(key)
}

func (c *Cache) flightWaiters(key string) int {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	if f, ok := c.flights[key]; ok {
		return f.waiters
	}
	return 0
}

// Invalidate drops the cached identity of one company.
func (c *Cache) Invalidate(ctx context.Context, company string) error {
	key := NormalizeName(company)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Delete(ctx, key)
	}
	return nil
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Clear(ctx)
	}
	return nil
}

// Len returns the number of locally cached identities, fresh or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
