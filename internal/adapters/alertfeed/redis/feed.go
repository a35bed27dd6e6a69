package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"peds-medsafety/internal/domain/alerts"

	"github.com/redis/go-redis/v9"
)

const feedKey = "alerts:feed"

// Feed implementa alerts.Repository sobre una lista de Redis: LPUSH al
// encolar, LRANGE para leer (más reciente primero). Pensado para que otro
// proceso pueda consumir el mismo feed.
type Feed struct {
	client *redis.Client
}

func Open(addr string) (*Feed, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Feed{client: client}, nil
}

func NewFeed(client *redis.Client) *Feed {
	return &Feed{client: client}
}

func (f *Feed) Append(ctx context.Context, a alerts.Alert) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return f.client.LPush(ctx, feedKey, b).Err()
}

func (f *Feed) List(ctx context.Context, limit int) ([]alerts.Alert, error) {
	if limit <= 0 {
		limit = 50
	}

	raw, err := f.client.LRange(ctx, feedKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]alerts.Alert, 0, len(raw))
	for _, item := range raw {
		var a alerts.Alert
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			// Entrada corrupta: se saltea, el feed sigue siendo útil.
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *Feed) Close() error {
	return f.client.Close()
}
