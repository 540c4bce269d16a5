package services

import (
	"fmt"

	"github.com/docstacker/docsign/client/config"
	"github.com/docstacker/docsign/client/modules/state"
	"github.com/docstacker/docsign/common"
	"github.com/docstacker/docsign/docapi"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/storage/file_storage"
	"github.com/docstacker/docsign/storage/kafka_storage"
)

func InitServices(conf *config.Config) error {
	logger := common.NewLogger("docsign")

	stg, err := NewStorage(conf)
	if err != nil {
		return fmt.Errorf("failed to init storage client: %w", err)
	}

	s, err := state.NewLevelDBState(conf.StateDBDSN)
	if err != nil {
		_ = stg.Close()
		return fmt.Errorf("failed to init state: %w", err)
	}

	docs := docapi.NewInflightGuard(docapi.NewHTTPClient(conf.BaseURL, conf.BackendConfig.Timeout))

	if err = provider.Init(conf, s, stg, docs, logger); err != nil {
		_ = provider.Close()
		return fmt.Errorf("failed to init services: %w", err)
	}

	return nil
}

// NewStorage opens the audit log configured by storage_type.
func NewStorage(conf *config.Config) (storage.Storage, error) {
	switch conf.Type {
	case config.StorageTypeKafka:
		kafka, err := conf.Kafka()
		if err != nil {
			return nil, err
		}
		return kafka_storage.NewKafkaStorage(
			kafka.DBDSN,
			kafka.Topic,
			kafka.TlsConfig,
			kafka.ProducerCredentials,
			kafka.ConsumerCredentials,
			kafka.Timeout,
		)
	case config.StorageTypeFile:
		return file_storage.NewFileStorage(conf.DBDSN, conf.DBDSN+".lock")
	default:
		return nil, fmt.Errorf("unknown storage type %q", conf.Type)
	}
}
