// Package poller consumes checkout-completed events and empties the
// buyer's cart. Checkout publishes through an outbox, so a message may
// be delivered more than once; emptying is idempotent and a cart that
// never existed is not an error worth retrying.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/neekunjchaturvedi/wallstorie-backend/internal/repository"
	"github.com/segmentio/kafka-go"
)

// CartEmptier is the slice of the cart service the poller needs.
type CartEmptier interface {
	EmptyCart(ctx context.Context, userID string) error
}

type Poller struct {
	service CartEmptier
	reader  *kafka.Reader
}

func New(service CartEmptier, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    "checkout-outbox",
		GroupID:  "cart-service-consumer",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{service: service, reader: reader}
}

// readErrBackoff keeps the loop from spinning while brokers are down.
const readErrBackoff = 2 * time.Second

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if ok := p.consumeOne(ctx); !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(readErrBackoff):
			}
		}
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

func (p *Poller) consumeOne(ctx context.Context) bool {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading message: %v", err)
		}
		return false
	}

	p.handleMessage(ctx, m.Value)
	return true
}

func (p *Poller) handleMessage(ctx context.Context, value []byte) {
	userID, ok := decodeUserID(value)
	if !ok {
		log.Printf("checkout event missing user_id")
		return
	}

	if err := p.service.EmptyCart(ctx, userID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("failed to empty cart for %s: %v", userID, err)
	}
}

func decodeUserID(value []byte) (string, bool) {
	var payload map[string]interface{}
	if err := json.Unmarshal(value, &payload); err != nil {
		return "", false
	}
	userID, ok := payload["user_id"].(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
