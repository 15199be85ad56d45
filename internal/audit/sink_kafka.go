package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"civicred/internal/platform/kafka"
)

// KafkaSink publishes audit events to the configured topic, keyed by
// registration id so per-registration history stays ordered within a
// partition.
type KafkaSink struct {
	producer *kafka.Producer
}

func NewKafkaSink(producer *kafka.Producer) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	var key []byte
	if !event.RegistrationID.IsZero() {
		key = []byte(event.RegistrationID.String())
	}
	return s.producer.Produce(ctx, key, value)
}
