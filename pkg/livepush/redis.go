package livepush

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
)

// RedisClient is the part of redis.UniversalClient used for publishing.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher is a Pusher that PUBLISHes JSON Messages on
// "<prefix>:user:<id>" and "<prefix>:all".
type RedisPublisher struct {
	client RedisClient
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

type RedisOption func(*RedisPublisher)

func WithChannelPrefix(prefix string) RedisOption {
	return func(p *RedisPublisher) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

func WithRedisLogger(l *slog.Logger) RedisOption {
	return func(p *RedisPublisher) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewRedisPublisher(client RedisClient, opts ...RedisOption) *RedisPublisher {
	p := &RedisPublisher{
		client: client,
		prefix: "livepush",
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// UserChannel is the Redis channel carrying userID's messages.
func (p *RedisPublisher) UserChannel(userID string) string {
	return p.prefix + ":user:" + userID
}

// BroadcastChannel is the Redis channel carrying messages for everyone.
func (p *RedisPublisher) BroadcastChannel() string {
	return p.prefix + ":all"
}

func (p *RedisPublisher) EmitToUser(ctx context.Context, userID, event string, payload map[string]any) bool {
	return p.publish(ctx, p.UserChannel(userID), Message{
		Event: event, UserID: userID, Payload: payload, SentAt: p.now(),
	})
}

func (p *RedisPublisher) EmitToAll(ctx context.Context, event string, payload map[string]any) bool {
	return p.publish(ctx, p.BroadcastChannel(), Message{
		Event: event, Payload: payload, SentAt: p.now(),
	})
}

func (p *RedisPublisher) publish(ctx context.Context, channel string, msg Message) bool {
	body, err := json.Marshal(msg)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelError, "failed to encode live push message",
			logger.EventType(msg.Event), logger.Error(err))
		return false
	}

	receivers, err := p.client.Publish(ctx, channel, body).Result()
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "live push publish failed",
			logger.EventType(msg.Event), slog.String("channel", channel), logger.Error(err))
		return false
	}
	return receivers > 0
}
