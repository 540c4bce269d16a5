package kafka_storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/docstacker/docsign/storage"
)

var (
	_ storage.Storage       = (*KafkaStorage)(nil)
	_ storage.ContextSender = (*KafkaStorage)(nil)
)

const (
	kafkaMinBytes    = 10
	kafkaMaxBytes    = 10e6
	kafkaMaxAttempts = 16

	defaultReadWindow = 10 * time.Second
)

type KafkaAuthCredentials struct {
	Username string
	Password string
}

func (c KafkaAuthCredentials) Mechanism() *plain.Mechanism {
	if c.Username == "" {
		return nil
	}
	return &plain.Mechanism{Username: c.Username, Password: c.Password}
}

// KafkaStorage keeps the audit log in a single-partition topic. Reads go
// through a partition reader so that GetMessages can start at any offset.
type KafkaStorage struct {
	mu sync.Mutex

	writer                       *kafka.Writer
	tlsConfig                    *tls.Config
	producerCreds, consumerCreds *plain.Mechanism
	brokerEndpoint, topic        string
	timeout                      time.Duration
	readWindow                   time.Duration
}

func NewKafkaStorage(
	brokerEndpoint,
	topic string,
	tlsConfig *tls.Config,
	producerCreds,
	consumerCreds *plain.Mechanism,
	timeout time.Duration,
) (*KafkaStorage, error) {
	if brokerEndpoint == "" || topic == "" {
		return nil, errors.New("broker endpoint and topic are required")
	}
	ks := &KafkaStorage{
		brokerEndpoint: brokerEndpoint,
		topic:          topic,
		tlsConfig:      tlsConfig,
		producerCreds:  producerCreds,
		consumerCreds:  consumerCreds,
		timeout:        timeout,
		readWindow:     defaultReadWindow,
	}
	ks.writer = &kafka.Writer{
		Addr:     kafka.TCP(brokerEndpoint),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Transport: &kafka.Transport{
			Dial: (&net.Dialer{
				Timeout: timeout,
			}).DialContext,
			TLS:  tlsConfig,
			SASL: saslMechanism(producerCreds),
		},
		MaxAttempts:  kafkaMaxAttempts,
		BatchTimeout: timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		RequiredAcks: kafka.RequireAll,
	}

	return ks, nil
}

func (ks *KafkaStorage) Close() error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.writer != nil {
		if err := ks.writer.Close(); err != nil {
			return fmt.Errorf("failed to Close writer: %w", err)
		}
		ks.writer = nil
	}
	return nil
}

// Send writes messages synchronously. Offsets are assigned by the broker and
// are known only on read.
func (ks *KafkaStorage) Send(messages ...storage.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), ks.writeDeadline())
	defer cancel()
	return ks.SendContext(ctx, messages...)
}

// SendContext is Send with the write bounded by ctx instead of the retry
// budget.
func (ks *KafkaStorage) SendContext(ctx context.Context, messages ...storage.Message) error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.writer == nil {
		return errors.New("storage is closed")
	}

	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.New().String()
		}
	}
	kafkaMessages, err := storageToKafkaMessages(messages...)
	if err != nil {
		return fmt.Errorf("failed to storageToKafkaMessages: %w", err)
	}

	if err := ks.writer.WriteMessages(ctx, kafkaMessages...); err != nil {
		return fmt.Errorf("failed to WriteMessages: %w", err)
	}
	return nil
}

// GetMessages reads from offset until the end of the partition or until the
// read window expires.
func (ks *KafkaStorage) GetMessages(offset uint64) ([]storage.Message, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{ks.brokerEndpoint},
		Topic:       ks.topic,
		Partition:   0,
		MinBytes:    kafkaMinBytes,
		MaxBytes:    kafkaMaxBytes,
		MaxAttempts: kafkaMaxAttempts,
		Dialer: &kafka.Dialer{
			Timeout:       ks.timeout,
			DualStack:     true,
			TLS:           ks.tlsConfig,
			SASLMechanism: saslMechanism(ks.consumerCreds),
		},
	})
	defer reader.Close()

	if err := reader.SetOffset(int64(offset)); err != nil {
		return nil, fmt.Errorf("failed to SetOffset: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ks.readWindow)
	defer cancel()

	var messages []storage.Message
	for {
		if lag, err := reader.ReadLag(ctx); err == nil && lag == 0 {
			break
		}

		kafkaMessage, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return nil, fmt.Errorf("failed to ReadMessage: %w", err)
		}

		message, err := kafkaToStorageMessage(kafkaMessage)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, nil
}

func (ks *KafkaStorage) writeDeadline() time.Duration {
	if ks.timeout <= 0 {
		return defaultReadWindow
	}
	return ks.timeout * kafkaMaxAttempts
}

// saslMechanism avoids a typed nil inside the sasl.Mechanism interface.
func saslMechanism(m *plain.Mechanism) sasl.Mechanism {
	if m == nil {
		return nil
	}
	return m
}
