package statsfeed

import (
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/tzsmit/nova-titan-widget-sub004/internal/models"
)

type cachedRecord struct {
	record    models.PropRecord
	expiresAt time.Time
}

// PropCache is an explicit TTL cache for fetched prop records, keyed by
// player and category. Expiry is checked against an injectable clock so
// tests can expire entries deterministically instead of sleeping.
type PropCache struct {
	store     *cache.Cache
	ttl       time.Duration
	now       func() time.Time
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPropCache creates a prop cache with the given TTL
func NewPropCache(ttl time.Duration) *PropCache {
	return &PropCache{
		store: cache.New(cache.NoExpiration, 0),
		ttl:   ttl,
		now:   time.Now,
	}
}

// NewPropCacheWithClock creates a prop cache reading time from the given
// clock
func NewPropCacheWithClock(ttl time.Duration, clock func() time.Time) *PropCache {
	pc := NewPropCache(ttl)
	pc.now = clock
	return pc
}

func cacheKey(player, propCategory string) string {
	return player + ":" + propCategory
}

// Get retrieves a cached record if present and unexpired
func (pc *PropCache) Get(player, propCategory string) (models.PropRecord, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	raw, found := pc.store.Get(cacheKey(player, propCategory))
	if !found {
		pc.missCount++
		return models.PropRecord{}, false
	}

	entry := raw.(cachedRecord)
	if pc.now().After(entry.expiresAt) {
		pc.store.Delete(cacheKey(player, propCategory))
		pc.missCount++
		return models.PropRecord{}, false
	}

	pc.hitCount++
	return entry.record, true
}

// Put stores a record under its player and category identity
func (pc *PropCache) Put(record models.PropRecord) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.store.Set(cacheKey(record.Player, record.PropCategory), cachedRecord{
		record:    record,
		expiresAt: pc.now().Add(pc.ttl),
	}, cache.NoExpiration)
}

// Flush drops every cached entry
func (pc *PropCache) Flush() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.store.Flush()
}

// Stats returns cumulative hit and miss counts
func (pc *PropCache) Stats() (hits, misses uint64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.hitCount, pc.missCount
}
