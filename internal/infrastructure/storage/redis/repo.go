package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

type Repo struct {
	rdb         *redis.Client
	prefix      string
	ttl         time.Duration
	keyLatest   string // prefix + ":latest"
	keySnapshot string // prefix + ":snapshot"
	eventStream string
	eventChan   string
}

type LatestPrice struct {
	Price string `json:"price"`
	Ts    int64  `json:"ts"`
}

// Event is what lands on the order stream and the pub/sub channel.
type Event struct {
	Kind       string `json:"kind"` // opened | closed
	ID         int64  `json:"id"`
	Side       string `json:"type"`
	Price      string `json:"price"`
	Amount     string `json:"amount"`
	ClosePrice string `json:"close_price,omitempty"`
	TsMs       int64  `json:"ts_ms"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, eventStream, eventChan string) *Repo {
	if strings.TrimSpace(eventStream) == "" {
		eventStream = prefix + ":orders"
	}
	if strings.TrimSpace(eventChan) == "" {
		eventChan = prefix + ":orders:pub"
	}
	return &Repo{
		rdb:         rdb,
		prefix:      prefix,
		ttl:         ttl,
		keyLatest:   prefix + ":latest",
		keySnapshot: prefix + ":snapshot",
		eventStream: eventStream,
		eventChan:   eventChan,
	}
}

func (r *Repo) Close() error { return nil } // client lifetime is owned by the container

func (r *Repo) UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error {
	if !price.IsPositive() {
		return nil
	}
	b, _ := json.Marshal(LatestPrice{Price: price.String(), Ts: ts})

	pipe := r.rdb.Pipeline()
	pipe.Set(ctx, r.keyLatest, string(b), r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertOrder(ctx context.Context, pos model.Position) error {
	return r.publish(ctx, Event{
		Kind:   "opened",
		ID:     pos.ID,
		Side:   string(pos.Side),
		Price:  pos.Price.String(),
		Amount: pos.Amount.String(),
		TsMs:   pos.Timestamp.UnixMilli(),
	})
}

func (r *Repo) CloseOrder(ctx context.Context, entry model.HistoryEntry) error {
	ev := Event{
		Kind:   "closed",
		ID:     entry.ID,
		Side:   string(entry.Side),
		Price:  entry.Price.String(),
		Amount: entry.Amount.String(),
		TsMs:   entry.Timestamp.UnixMilli(),
	}
	if entry.ClosePrice != nil {
		ev.ClosePrice = entry.ClosePrice.String()
	}
	return r.publish(ctx, ev)
}

func (r *Repo) publish(ctx context.Context, ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	// 1) Stream: XADD <stream> * kind id payload
	_, err = r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.eventStream,
		Values: map[string]any{
			"kind":    ev.Kind,
			"id":      ev.ID,
			"payload": string(b),
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> json
	return r.rdb.Publish(ctx, r.eventChan, string(b)).Err()
}

// InsertSnapshot keeps only the latest snapshot.
func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return r.rdb.Set(ctx, r.keySnapshot, payload, r.ttl).Err()
}

var _ port.Repository = (*Repo)(nil)
