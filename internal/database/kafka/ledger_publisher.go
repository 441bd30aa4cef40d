package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"lifeops/internal/models"
)

// LedgerPublisher ships invocation ledger entries to Kafka so the
// append-only record survives process restarts. Publishing is
// best-effort: the in-memory ledger remains the source of truth for
// read-back.
type LedgerPublisher struct {
	writer *kafka.Writer
}

// NewLedgerPublisher creates a publisher writing to the client's
// configured ledger topic.
func NewLedgerPublisher(client *KafkaClient) *LedgerPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(client.Config.Brokers...),
		Topic:        client.Config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}
	return &LedgerPublisher{writer: writer}
}

// Publish serializes the entry as JSON and writes it keyed by service
// name, so entries for one provider land on one partition in order.
func (p *LedgerPublisher) Publish(ctx context.Context, entry models.LedgerEntry) error {
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(entry.Service),
		Value: jsonData,
	})
	if err != nil {
		return fmt.Errorf("failed to write ledger entry to kafka: %w", err)
	}
	return nil
}

// Close shuts down the underlying writer.
func (p *LedgerPublisher) Close() error {
	return p.writer.Close()
}
