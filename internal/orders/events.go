package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/enums"
	"github.com/washday/laundry-backend/pkg/kafka"
)

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is published once per completed checkout. OrderID is nil
// when the order row could not be written.
type OrderPlacedEvent struct {
	OrderID         *uuid.UUID          `json:"order_id,omitempty"`
	CustomerID      *uuid.UUID          `json:"customer_id,omitempty"`
	PaymentIntentID string              `json:"payment_intent_id"`
	AmountCents     int64               `json:"amount_cents"`
	Weight          enums.WeightBracket `json:"weight"`
	ServiceType     enums.ServiceType   `json:"service_type"`
	Email           string              `json:"email"`
	PlacedAt        time.Time           `json:"placed_at"`
}

type envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// EventPublisher writes order events to Kafka.
type EventPublisher struct {
	publisher kafka.Publisher
	topic     string
	now       func() time.Time
}

func NewEventPublisher(publisher kafka.Publisher, topic string) (*EventPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("kafka publisher required")
	}
	if topic == "" {
		return nil, fmt.Errorf("orders topic required")
	}
	return &EventPublisher{publisher: publisher, topic: topic, now: time.Now}, nil
}

func (p *EventPublisher) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	payload, err := json.Marshal(envelope{
		ID:         uuid.NewString(),
		Type:       EventOrderPlaced,
		OccurredAt: p.now().UTC(),
		Data:       event,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", EventOrderPlaced, err)
	}
	key := event.PaymentIntentID
	if event.OrderID != nil {
		key = event.OrderID.String()
	}
	return p.publisher.Publish(ctx, p.topic, key, payload)
}
