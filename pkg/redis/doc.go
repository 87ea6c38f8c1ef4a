// Package redis opens go-redis clients for the live push fan-out.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck returns a readiness check for the ops server.
package redis
