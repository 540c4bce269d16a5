package config

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	fsmconfig "github.com/docstacker/docsign/fsm/config"
	"github.com/docstacker/docsign/qr"
	"github.com/docstacker/docsign/storage/kafka_storage"
)

const (
	EnvPrefix = "DOCSIGN"

	StorageTypeFile  = "file"
	StorageTypeKafka = "kafka"

	FlagConfigFile          = "config"
	FlagListenAddr          = "listen_addr"
	FlagDebug               = "debug"
	FlagBackendURL          = "backend_url"
	FlagBackendTimeout      = "backend_timeout"
	FlagStateDBDSN          = "state_dbdsn"
	FlagStateNamespace      = "state_namespace"
	FlagStorageType         = "storage_type"
	FlagStorageDBDSN        = "storage_dbdsn"
	FlagStorageTopic        = "storage_topic"
	FlagKafkaProducerCreds  = "producer_credentials"
	FlagKafkaConsumerCreds  = "consumer_credentials"
	FlagKafkaTrustStorePath = "kafka_truststore_path"
	FlagKafkaTimeout        = "kafka_timeout"
	FlagQRSize              = "qr_size"
)

type HttpApiConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Debug      bool   `mapstructure:"debug"`
}

type BackendConfig struct {
	BaseURL string        `mapstructure:"backend_url"`
	Timeout time.Duration `mapstructure:"backend_timeout"`
}

type StorageConfig struct {
	Type  string `mapstructure:"storage_type"`
	DBDSN string `mapstructure:"storage_dbdsn"`
	Topic string `mapstructure:"storage_topic"`

	ProducerCredentials string        `mapstructure:"producer_credentials"`
	ConsumerCredentials string        `mapstructure:"consumer_credentials"`
	TrustStorePath      string        `mapstructure:"kafka_truststore_path"`
	KafkaTimeout        time.Duration `mapstructure:"kafka_timeout"`
}

// Config is flat on the wire, the embedded groups are squashed.
type Config struct {
	HttpApiConfig `mapstructure:",squash"`
	BackendConfig `mapstructure:",squash"`
	StorageConfig `mapstructure:",squash"`

	StateDBDSN     string `mapstructure:"state_dbdsn"`
	StateNamespace string `mapstructure:"state_namespace"`
	QRSize         int    `mapstructure:"qr_size"`
}

// SetFlags registers the configuration flags with their defaults.
func SetFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfigFile, "", "Path to a YAML config file")
	flags.String(FlagListenAddr, "localhost:8080", "Listen Address")
	flags.Bool(FlagDebug, false, "Log HTTP requests")
	flags.String(FlagBackendURL, "http://localhost:8000", "Document backend base URL")
	flags.Duration(FlagBackendTimeout, fsmconfig.BackendRequestTimeout, "Document backend request timeout, 0 disables it")
	flags.String(FlagStateDBDSN, "./docsign_state", "State DBDSN")
	flags.String(FlagStateNamespace, "docsign", "State key namespace")
	flags.String(FlagStorageType, StorageTypeFile, "Audit log storage: file or kafka")
	flags.String(FlagStorageDBDSN, "./docsign_audit_log", "Storage DBDSN (file path or Kafka broker)")
	flags.String(FlagStorageTopic, "docsign_audit", "Storage Topic (Kafka)")
	flags.String(FlagKafkaProducerCreds, "", "Producer credentials for Kafka: username:password")
	flags.String(FlagKafkaConsumerCreds, "", "Consumer credentials for Kafka: username:password")
	flags.String(FlagKafkaTrustStorePath, "", "Path to kafka truststore")
	flags.Duration(FlagKafkaTimeout, 10*time.Second, "Kafka dial and write timeout")
	flags.Int(FlagQRSize, qr.DefaultSize, "Download QR code size in pixels")
}

// Load reads the configuration from flags, DOCSIGN_* environment variables
// and an optional YAML file, in that order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString(FlagConfigFile); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	conf := &Config{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%s is required", FlagListenAddr)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%s is required", FlagBackendURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%s cannot be negative", FlagBackendTimeout)
	}
	if c.StateDBDSN == "" {
		return fmt.Errorf("%s is required", FlagStateDBDSN)
	}
	switch c.Type {
	case StorageTypeFile, StorageTypeKafka:
	default:
		return fmt.Errorf("unknown %s %q", FlagStorageType, c.StorageConfig.Type)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("%s is required", FlagStorageDBDSN)
	}
	return nil
}

type KafkaStorageConfig struct {
	DBDSN               string
	Topic               string
	TlsConfig           *tls.Config
	ProducerCredentials *plain.Mechanism
	ConsumerCredentials *plain.Mechanism
	Timeout             time.Duration
}

// Kafka resolves the credentials and the trust store of the kafka storage.
func (c *StorageConfig) Kafka() (*KafkaStorageConfig, error) {
	tlsConfig, err := kafka_storage.GetTLSConfig(c.TrustStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls config: %w", err)
	}
	producerCreds, err := ParseKafkaSaslPlain(c.ProducerCredentials)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FlagKafkaProducerCreds, err)
	}
	consumerCreds, err := ParseKafkaSaslPlain(c.ConsumerCredentials)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FlagKafkaConsumerCreds, err)
	}

	return &KafkaStorageConfig{
		DBDSN:               c.DBDSN,
		Topic:               c.Topic,
		TlsConfig:           tlsConfig,
		ProducerCredentials: producerCreds,
		ConsumerCredentials: consumerCreds,
		Timeout:             c.KafkaTimeout,
	}, nil
}

// ParseKafkaSaslPlain parses "username:password". Empty credentials disable
// SASL.
func ParseKafkaSaslPlain(creds string) (*plain.Mechanism, error) {
	if creds == "" {
		return nil, nil
	}
	credsSplit := strings.SplitN(creds, ":", 2)
	if len(credsSplit) == 1 {
		return nil, fmt.Errorf("failed to parse credentials")
	}
	return &plain.Mechanism{
		Username: credsSplit[0],
		Password: credsSplit[1],
	}, nil
}
