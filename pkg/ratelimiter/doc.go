// Package ratelimiter implements a token bucket limiter with a pluggable
// Store.
//
// Each key owns a bucket of Capacity tokens that regains RefillRate tokens
// every RefillInterval. Allow consumes one token; the Result reports whether
// the caller stayed within budget and when the next refill happens.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//	    Capacity:       5,
//	    RefillRate:     1,
//	    RefillInterval: time.Minute,
//	})
//
//	res, err := limiter.Allow(ctx, "user.login_failed:"+userID)
//	if err == nil && !res.Allowed() {
//	    // drop the event
//	}
//
// MemoryStore drops buckets that have not been touched for an hour, on a
// background interval that Close stops.
package ratelimiter
