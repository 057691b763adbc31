package reportcache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache holds report snapshots keyed by (report type, filter params).
// Snapshots are ephemeral: fresh entries are served directly, stale ones
// are served while a single background refresh runs, and assignment
// mutations invalidate whole report types. At most one fetch per key is
// ever in flight.

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Fetcher computes a snapshot. It runs outside the cache lock.
type Fetcher func() (any, error)

type entry struct {
	state     State
	value     any
	fetchedAt time.Time
	lastErr   error
}

type Cache struct {
	ttl   time.Duration
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	clock   func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]*entry),
		clock:   time.Now,
	}
}

// Key builds a canonical cache key: report type plus sorted filter params,
// so equivalent queries share a snapshot regardless of param order.
func Key(reportType string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return reportType + "?" + strings.Join(keys, "&")
}

// Get returns the snapshot for key. Fresh entries are returned without
// fetching; stale entries are returned immediately while one background
// revalidation runs; missing or errored entries fetch synchronously.
func (c *Cache) Get(key string, fetch Fetcher) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.state == StateLoaded {
		age := c.clock().Sub(e.fetchedAt)
		value := e.value
		if age < c.ttl {
			c.mu.Unlock()
			return value, nil
		}
		c.mu.Unlock()
		c.revalidate(key, fetch)
		return value, nil
	}
	if !ok {
		e = &entry{state: StateIdle}
		c.entries[key] = e
	}
	e.state = StateLoading
	c.mu.Unlock()

	value, err, _ := c.group.Do(key, func() (any, error) { return fetch() })
	c.store(key, value, err)
	return value, err
}

// revalidate refreshes a stale entry in the background. singleflight
// collapses concurrent attempts into one fetch.
func (c *Cache) revalidate(key string, fetch Fetcher) {
	ch := c.group.DoChan(key, func() (any, error) { return fetch() })
	go func() {
		res := <-ch
		if res.Err != nil {
			// keep serving the stale snapshot; a later Get retries
			c.mu.Lock()
			if e, ok := c.entries[key]; ok {
				e.lastErr = res.Err
			}
			c.mu.Unlock()
			return
		}
		c.store(key, res.Val, nil)
	}()
}

func (c *Cache) store(key string, value any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	if err != nil {
		// errors are not cached: the next Get fetches again
		e.state = StateError
		e.lastErr = err
		e.value = nil
		return
	}
	e.state = StateLoaded
	e.value = value
	e.fetchedAt = c.clock()
	e.lastErr = nil
}

// StateOf reports the key's lifecycle state; unknown keys are Idle.
func (c *Cache) StateOf(key string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.state
	}
	return StateIdle
}

// InvalidateType drops every snapshot of one report type.
func (c *Cache) InvalidateType(reportType string) {
	prefix := reportType + "?"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// InvalidateAll drops everything. Assignment mutations use this: every
// report derives from assignments.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
