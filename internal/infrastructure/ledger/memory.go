package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Memory счётчики в памяти процесса, когда Redis не настроен.
type Memory struct {
	mu    sync.Mutex
	cache *cache.Cache
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
		now:   time.Now,
	}
}

func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Bought(_ context.Context, profileID, offerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.get(key(profileID, offerID)), nil
}

func (m *Memory) Add(_ context.Context, profileID, offerID string, count int, expireAt int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(profileID, offerID)
	n := m.get(k) + count

	ttl := cache.NoExpiration
	if expireAt > 0 {
		ttl = time.Unix(expireAt, 0).Sub(m.now())
		if ttl <= 0 {
			m.cache.Delete(k)
			return n, nil
		}
	}

	m.cache.Set(k, entry{count: n, expireAt: expireAt}, ttl)

	return n, nil
}

type entry struct {
	count    int
	expireAt int64
}

func (m *Memory) get(k string) int {
	v, ok := m.cache.Get(k)
	if !ok {
		return 0
	}

	e := v.(entry) //nolint:forcetypeassert
	if e.expireAt > 0 && e.expireAt <= m.now().Unix() {
		return 0
	}

	return e.count
}
