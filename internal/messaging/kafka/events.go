package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "fulfillment.order.events"
	TopicDeadLetterQueue = "fulfillment.dlq" // Dead Letter Queue для неопубликованных outbox-сообщений
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderOutboxID      = "x-outbox-id"
	HeaderOriginalTopic = "x-original-topic"
)

// OutboxEnvelope — формат сообщения, которое outbox публикует в Kafka.
type OutboxEnvelope struct {
	ID            string          `json:"id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PublishedAt   time.Time       `json:"published_at"`
}

// NewOutboxEnvelope оборачивает outbox-сообщение.
func NewOutboxEnvelope(msg domain.OutboxMessage, publishedAt time.Time) OutboxEnvelope {
	payload := json.RawMessage(msg.Payload)
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return OutboxEnvelope{
		ID:            msg.ID,
		AggregateType: msg.AggregateType,
		AggregateID:   msg.AggregateID,
		EventType:     msg.EventType,
		Payload:       payload,
		OccurredAt:    msg.CreatedAt,
		PublishedAt:   publishedAt,
	}
}

// ParseOrderCreated извлекает событие order.created из конверта.
func ParseOrderCreated(data []byte) (OutboxEnvelope, domain.OrderCreatedEvent, error) {
	var envelope OutboxEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return OutboxEnvelope{}, domain.OrderCreatedEvent{}, err
	}
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		return envelope, domain.OrderCreatedEvent{}, err
	}
	return envelope, event, nil
}

// ErrNotDeadLetter возвращается для сообщений, которые не похожи на DLQ-конверт outbox.
var ErrNotDeadLetter = errors.New("message is not an outbox dead letter")

// ParseDeadLetter разбирает сообщение из DLQ и возвращает исходное outbox-сообщение.
func ParseDeadLetter(data []byte) (domain.OutboxMessage, error) {
	var envelope OutboxEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Payload) == 0 || string(envelope.Payload) == "null" {
		return domain.OutboxMessage{}, ErrNotDeadLetter
	}

	var letter domain.DeadLetter
	if err := json.Unmarshal(envelope.Payload, &letter); err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("decode dead letter payload: %w", err)
	}
	if len(letter.Payload) == 0 || string(letter.Payload) == "null" {
		return domain.OutboxMessage{}, errors.New("dead letter does not contain original event payload")
	}

	msg := letter.OriginalMessage()
	if msg.ID == "" {
		msg.ID = envelope.ID
	}
	if msg.AggregateType == "" {
		msg.AggregateType = envelope.AggregateType
	}
	if msg.AggregateID == "" {
		msg.AggregateID = envelope.AggregateID
	}
	if msg.EventType == "" {
		msg.EventType = envelope.EventType
	}
	msg.CreatedAt = envelope.OccurredAt
	return msg, nil
}
