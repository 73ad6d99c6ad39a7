package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventSaleRecorded         = "sale_recorded"
	EventReservationCreated   = "reservation_created"
	EventReservationConfirmed = "reservation_confirmed"
	EventReservationHeld      = "reservation_held"
	EventReservationCancelled = "reservation_cancelled"
	EventReservationCompleted = "reservation_completed"
	EventCustomerCreated      = "customer_created"
	EventStockAdjusted        = "stock_adjusted"
)

// TransactionEventPayload describes the minimal transaction snapshot for
// event consumers.
type TransactionEventPayload struct {
	TransactionID int64           `json:"transaction_id"`
	CustomerID    int64           `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	ResourceID    int64           `json:"resource_id"`
	ResourceName  string          `json:"resource_name,omitempty"`
	Quantity      int             `json:"quantity"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// CustomerEventPayload carries the identity of a newly registered customer.
type CustomerEventPayload struct {
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// StockEventPayload reports a stock level change on a resource.
type StockEventPayload struct {
	ResourceID int64  `json:"resource_id"`
	Name       string `json:"name,omitempty"`
	Stock      int    `json:"stock"`
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
