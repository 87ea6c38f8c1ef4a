// Package dispatcher sends notification emails with per-user throttling and
// periodic digests.
//
// A Dispatcher subscribes to the event bus next to the notification router.
// For every event addressed to a user it resolves the user and their
// preferences through TTL caches, then either sends the event's email right
// away or, when the user received an email less than MinEmailInterval ago,
// appends it to the user's digest queue. Security and account emails are
// immediate and skip the cooldown.
//
// Two cron jobs run once Start is called: FlushDigests sends one summary per
// user with queued items, and CleanupCaches evicts stale cache entries.
// Both can be called directly with an explicit time, which is how tests drive
// them.
//
//	d := dispatcher.New(userStore, prefStore, transport, cfg,
//		dispatcher.WithLogger(log),
//		dispatcher.WithMetrics(m),
//	)
//	d.Subscribe(bus)
//	if err := d.Start(ctx); err != nil {
//		return err
//	}
//	defer d.Close()
//
// Close releases everything together: bus subscriptions, both cron jobs,
// caches and queues.
package dispatcher
