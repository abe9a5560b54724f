package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"todo_realtime_service/internal/realtime/domain"
	"todo_realtime_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisPubSub redis pub/sub transport, shared by every node of the service
type RedisPubSub struct {
	client *redis.Client
	prefix string
}

// NewRedisPubSub create RedisPubSub; channels are namespaced as "rt:<destination>"
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		prefix: "rt:",
	}
}

// Publish 將 message 序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(ctx context.Context, destination string, msg domain.RealtimeMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal realtime message: %w", err)
	}
	return r.client.Publish(ctx, r.prefix+destination, data).Err()
}

// Subscribe 訂閱 destination，收到訊息後呼叫 handler 處理
func (r *RedisPubSub) Subscribe(ctx context.Context, destination string, handler func(domain.RealtimeMessage)) error {
	channel := r.prefix + destination
	sub := r.client.Subscribe(ctx, channel)
	// wait for the subscribe confirmation
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg domain.RealtimeMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					logger.Log.Error("redis payload decode failed", zap.String("channel", channel), zap.Error(err))
					continue
				}
				handler(msg)
			case <-ctx.Done():
				logger.Log.Debug("redis subscription closed", zap.String("channel", channel))
				return
			}
		}
	}()
	return nil
}
