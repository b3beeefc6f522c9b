package audit

import (
	"context"
	"encoding/json"
	"fmt"

	id "nagrik/pkg/domain"
)

// KafkaProducer is the subset of the platform producer the sink needs.
type KafkaProducer interface {
	Produce(ctx context.Context, msg *ProducerMessage) error
}

// ProducerMessage mirrors the platform producer message shape so this package
// does not import the Kafka client directly.
type ProducerMessage struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// KafkaStore fans audit events out to a Kafka topic, keyed by user so a
// consumer sees each citizen's trail in order.
type KafkaStore struct {
	producer KafkaProducer
	topic    string
}

var _ Store = (*KafkaStore)(nil)

func NewKafkaStore(producer KafkaProducer, topic string) *KafkaStore {
	return &KafkaStore{producer: producer, topic: topic}
}

type kafkaEvent struct {
	Timestamp      string `json:"timestamp"`
	UserID         string `json:"user_id"`
	Action         string `json:"action"`
	DocumentType   string `json:"document_type,omitempty"`
	VerificationID string `json:"verification_id,omitempty"`
	Decision       string `json:"decision,omitempty"`
	Reason         string `json:"reason,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(kafkaEvent{
		Timestamp:      event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		UserID:         event.UserID.String(),
		Action:         event.Action,
		DocumentType:   event.DocumentType,
		VerificationID: event.VerificationID,
		Decision:       event.Decision,
		Reason:         event.Reason,
		RequestID:      event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	return s.producer.Produce(ctx, &ProducerMessage{
		Topic: s.topic,
		Key:   []byte(event.UserID.String()),
		Value: payload,
	})
}

// ListByUser is not supported by the Kafka sink; reads happen downstream.
func (s *KafkaStore) ListByUser(_ context.Context, _ id.UserID) ([]Event, error) {
	return nil, fmt.Errorf("kafka audit store is write-only")
}
