package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pawmatch/pawmatch-backend/pkg/logger"
	redisclient "github.com/pawmatch/pawmatch-backend/pkg/redis"
)

// RedisBus carries chat events across API instances. Sends publish to the
// match's channel; one subscription connection per process feeds the hub,
// with channels added and removed as local rooms open and close.
type RedisBus struct {
	client *redisclient.Client
	pubsub *redis.PubSub
	log    *logger.Logger
}

// NewRedisBus opens the process-wide subscription connection.
func NewRedisBus(ctx context.Context, client *redisclient.Client, log *logger.Logger) (*RedisBus, error) {
	pubsub, err := client.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.New(logger.Options{ServiceName: "chat-bus"})
	}
	return &RedisBus{client: client, pubsub: pubsub, log: log}, nil
}

// Publish sends one event payload to the match's channel.
func (b *RedisBus) Publish(ctx context.Context, matchID uuid.UUID, payload []byte) error {
	return b.client.Publish(ctx, b.client.ChatChannel(matchID.String()), payload)
}

// SubscribeMatch adds the match's channel to the process subscription.
func (b *RedisBus) SubscribeMatch(matchID uuid.UUID) error {
	return b.pubsub.Subscribe(context.Background(), b.client.ChatChannel(matchID.String()))
}

// UnsubscribeMatch removes the match's channel from the process subscription.
func (b *RedisBus) UnsubscribeMatch(matchID uuid.UUID) error {
	return b.pubsub.Unsubscribe(context.Background(), b.client.ChatChannel(matchID.String()))
}

// Run pumps subscribed events into the hub until the context ends. Meant to
// run as one goroutine per process.
func (b *RedisBus) Run(ctx context.Context, hub *Hub) {
	events := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			matchID, err := matchIDFromChannel(msg.Channel)
			if err != nil {
				b.log.Error(ctx, "parse chat channel", err)
				continue
			}
			hub.Deliver(matchID, []byte(msg.Payload))
		}
	}
}

// Close releases the subscription connection.
func (b *RedisBus) Close() error {
	return b.pubsub.Close()
}

// matchIDFromChannel recovers the match id from a channel name shaped like
// pm:chat:match:<uuid>.
func matchIDFromChannel(channel string) (uuid.UUID, error) {
	idx := strings.LastIndex(channel, ":")
	return uuid.Parse(channel[idx+1:])
}
