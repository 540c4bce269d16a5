package kafka_storage

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"

	"github.com/docstacker/docsign/storage"
)

// GetTLSConfig returns nil when no trust store is given, plain TCP is used
// in that case.
func GetTLSConfig(trustStorePath string) (*tls.Config, error) {
	if trustStorePath == "" {
		return nil, nil
	}

	caCert, err := os.ReadFile(trustStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trustStorePath: %w", err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("no certificates found in the trust store")
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// storageToKafkaMessages keys records by session so one session stays ordered.
func storageToKafkaMessages(messages ...storage.Message) ([]kafka.Message, error) {
	kafkaMessages := make([]kafka.Message, len(messages))
	for i, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return kafkaMessages, fmt.Errorf("failed to marshal a message %s: %w", m.ID, err)
		}
		kafkaMessages[i] = kafka.Message{Key: []byte(m.SessionID), Value: data, Time: m.CreatedAt}
	}
	return kafkaMessages, nil
}

func kafkaToStorageMessage(kafkaMessage kafka.Message) (storage.Message, error) {
	var message storage.Message
	if err := json.Unmarshal(kafkaMessage.Value, &message); err != nil {
		return message, fmt.Errorf("failed to unmarshal a message %s: %w", string(kafkaMessage.Value), err)
	}
	message.Offset = uint64(kafkaMessage.Offset)
	return message, nil
}
