// Package cache holds the two in-memory caches used by the notification
// pipeline.
//
// LRUCache is capacity-bounded and evicts the least recently used entry,
// with an optional eviction callback for releasing resources such as
// per-user live push broadcasters.
//
// TTLCache is time-bounded. An entry older than the TTL is treated as a
// miss on Get and removed by Cleanup. Callers pass the current time
// explicitly, which keeps the cache deterministic under a fake clock:
//
//	users := cache.NewTTLCache[string, users.User](10 * time.Minute)
//	if u, ok := users.Get(id, now); ok {
//		return u
//	}
//	u, err := store.Get(ctx, id)
//	...
//	users.Put(id, u, now)
//
// Both caches are safe for concurrent use.
package cache
