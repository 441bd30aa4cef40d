package kafka

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"lifeops/internal/config"
)

// KafkaClient holds the shared connection details for the ledger sink.
type KafkaClient struct {
	Conn   *kafka.Conn // admin connection, used for topic creation and health checks
	Config *config.KafkaConfig
}

var (
	client  *KafkaClient
	once    sync.Once
	initErr error
)

// GetClient initializes and returns the process-wide Kafka client. On
// first use it connects to the cluster and creates the configured topic
// if it does not exist yet.
func GetClient(cfg *config.KafkaConfig) (*KafkaClient, error) {
	once.Do(func() {
		if len(cfg.Brokers) == 0 {
			initErr = fmt.Errorf("no Kafka brokers configured")
			return
		}
		if cfg.Topic == "" {
			initErr = fmt.Errorf("no Kafka topic configured")
			return
		}

		conn, err := kafka.Dial("tcp", cfg.Brokers[0])
		if err != nil {
			initErr = fmt.Errorf("failed to connect to Kafka: %w", err)
			return
		}

		partitions, err := conn.ReadPartitions()
		if err != nil {
			initErr = fmt.Errorf("failed to read Kafka partitions: %w", err)
			conn.Close()
			return
		}

		exists := false
		for _, p := range partitions {
			if p.Topic == cfg.Topic {
				exists = true
				break
			}
		}
		if !exists {
			err = conn.CreateTopics(kafka.TopicConfig{
				Topic:             cfg.Topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			})
			if err != nil {
				initErr = fmt.Errorf("failed to create Kafka topic '%s': %w", cfg.Topic, err)
				conn.Close()
				return
			}
		}

		client = &KafkaClient{Conn: conn, Config: cfg}
	})

	return client, initErr
}

// Close shuts down the admin connection.
func (c *KafkaClient) Close() error {
	if c == nil || c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// HealthCheck verifies the cluster controller is reachable.
func (c *KafkaClient) HealthCheck(ctx context.Context) error {
	if c == nil || c.Conn == nil {
		return fmt.Errorf("kafka client is not initialized")
	}
	_, err := c.Conn.Controller()
	return err
}
