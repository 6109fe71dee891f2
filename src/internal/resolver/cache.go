package resolver

import (
	"container/list"
	"sync"
)

type cacheKey struct {
	host   string
	filter FilterMode
}

// resultCache keeps the results of recent lookups so that hostnames repeated
// in one input are resolved once. Failed results are never stored.
type resultCache struct {
	mu sync.Mutex

	results    map[cacheKey]Result
	maxEntries int

	// LRU tracking (front = oldest)
	lruList  *list.List
	lruIndex map[cacheKey]*list.Element
}

func newResultCache(maxEntries int) *resultCache {
	if maxEntries <= 0 {
		return nil
	}
	return &resultCache{
		results:    make(map[cacheKey]Result),
		maxEntries: maxEntries,
		lruList:    list.New(),
		lruIndex:   make(map[cacheKey]*list.Element),
	}
}

func (c *resultCache) get(key cacheKey) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.results[key]
	if ok {
		c.lruList.MoveToBack(c.lruIndex[key])
	}
	return res, ok
}

func (c *resultCache) put(key cacheKey, res Result) {
	if c == nil || res.IPv4Status == StatusFailed || res.IPv6Status == StatusFailed {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[key] = res
	if elem, exists := c.lruIndex[key]; exists {
		c.lruList.MoveToBack(elem)
	} else {
		c.lruIndex[key] = c.lruList.PushBack(key)
	}

	for c.lruList.Len() > c.maxEntries {
		oldest := c.lruList.Front()
		k := oldest.Value.(cacheKey)
		c.lruList.Remove(oldest)
		delete(c.lruIndex, k)
		delete(c.results, k)
	}
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}
