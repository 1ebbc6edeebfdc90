package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// RedisBridge mirrors events onto a redis pub/sub channel so off-box
// consumers (dashboards, a second register) can follow along.
type RedisBridge struct {
	client  *redis.Client
	channel string
}

func NewRedisBridge(url, channel string) (*RedisBridge, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisBridge{client: client, channel: channel}, nil
}

func (b *RedisBridge) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[redis] marshal event: %v", err)
		return
	}
	if err := b.client.Publish(context.Background(), b.channel, data).Err(); err != nil {
		log.Printf("[redis] publish %s: %v", ev.Type, err)
	}
}

func (b *RedisBridge) Close() error {
	return b.client.Close()
}
