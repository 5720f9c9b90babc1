package storage

import (
	"context"
	"encoding/json"
	"log"

	"savoria/internal/domain"

	"github.com/segmentio/kafka-go"
)

// OrderStatusStore is the one write the consumer performs: patching an
// order's status field.
type OrderStatusStore interface {
	UpdateOrderStatus(ctx context.Context, orderID, status string) (int64, error)
}

var allowedStatuses = map[string]bool{
	domain.StatusPending:   true,
	domain.StatusConfirmed: true,
	domain.StatusPreparing: true,
	domain.StatusDelivered: true,
	domain.StatusCancelled: true,
}

// StatusConsumer applies status updates coming from kitchen-side
// processes. Item lines and totals of a stored order are never touched.
type StatusConsumer struct {
	Reader *kafka.Reader
	Store  OrderStatusStore
}

func NewStatusConsumer(reader *kafka.Reader, store OrderStatusStore) *StatusConsumer {
	return &StatusConsumer{Reader: reader, Store: store}
}

func (c *StatusConsumer) Start(ctx context.Context) {
	log.Println("[orders] starting status consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[orders] error reading status message: %v", err)
			continue
		}

		var event domain.StatusEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("[orders] error unmarshaling status message: %v", err)
			continue
		}
		c.Process(ctx, event)
	}
}

func (c *StatusConsumer) Process(ctx context.Context, event domain.StatusEvent) {
	if event.Type != "status_update" {
		return
	}
	if !allowedStatuses[event.Status] {
		log.Printf("[orders] dropping unknown status %q for order %s", event.Status, event.OrderID)
		return
	}

	rows, err := c.Store.UpdateOrderStatus(ctx, event.OrderID, event.Status)
	if err != nil {
		log.Printf("[orders] error updating status for order %s: %v", event.OrderID, err)
		return
	}
	if rows == 0 {
		log.Printf("[orders] status update for unknown order %s", event.OrderID)
		return
	}
	log.Printf("[orders] order %s moved to %s", event.OrderID, event.Status)
}
