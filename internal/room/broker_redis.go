package room

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const redisChannelPrefix = "memomatch:room:"

// RedisBroker is a Notifier backed by redis pub/sub, so snapshots published
// on one instance reach subscribers connected to another.
type RedisBroker struct {
	rdb    *redis.Client
	logger *slog.Logger

	mu   sync.Mutex
	subs map[chan Room]*redis.PubSub
}

func NewRedisBroker(rdb *redis.Client, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{
		rdb:    rdb,
		logger: logger,
		subs:   make(map[chan Room]*redis.PubSub),
	}
}

// Publish broadcasts the snapshot on the room's redis channel.
func (b *RedisBroker) Publish(code string, doc Room) {
	data, err := json.Marshal(doc)
	if err != nil {
		b.logger.Error("marshaling room snapshot", "code", code, "error", err)
		return
	}
	if err := b.rdb.Publish(context.Background(), redisChannelPrefix+code, data).Err(); err != nil {
		b.logger.Error("publishing room snapshot", "code", code, "error", err)
	}
}

// Subscribe opens a redis subscription for the room and returns a channel of
// decoded snapshots.
func (b *RedisBroker) Subscribe(code string) chan Room {
	ps := b.rdb.Subscribe(context.Background(), redisChannelPrefix+code)
	ch := make(chan Room, 16)

	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()

	go func() {
		for msg := range ps.Channel() {
			var doc Room
			if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
				b.logger.Error("decoding room snapshot", "code", code, "error", err)
				continue
			}
			select {
			case ch <- doc:
			default:
				// Drop if subscriber is slow; it re-syncs from a later snapshot.
			}
		}
	}()

	return ch
}

// Unsubscribe closes the room's redis subscription for this channel.
func (b *RedisBroker) Unsubscribe(code string, ch chan Room) {
	b.mu.Lock()
	ps, ok := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()
	if ok {
		ps.Close()
	}
}
