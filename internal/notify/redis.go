package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/redis/go-redis/v9"
)

// Publisher - часть redis.UniversalClient, нужная для pub/sub
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPusher публикует уведомления в канал получателя, чтобы
// live-клиенты получали их без опроса
type RedisPusher struct {
	client Publisher
}

func NewRedisPusher(client Publisher) *RedisPusher {
	return &RedisPusher{client: client}
}

func (p *RedisPusher) Name() string { return "redis" }

func (p *RedisPusher) Push(ctx context.Context, n *model.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, Channel(n.RecipientID), payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Channel возвращает имя канала получателя
func Channel(recipientID int64) string {
	return fmt.Sprintf("notifications:%d", recipientID)
}
