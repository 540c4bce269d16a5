package main

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docstacker/docsign/client/config"
)

// printConfig writes conf keyed by flag names, so the output can be fed
// back through --config.
func printConfig(w io.Writer, conf *config.Config) error {
	out := map[string]interface{}{
		config.FlagListenAddr:          conf.ListenAddr,
		config.FlagDebug:               conf.Debug,
		config.FlagBackendURL:          conf.BaseURL,
		config.FlagBackendTimeout:      conf.BackendConfig.Timeout.String(),
		config.FlagStateDBDSN:          conf.StateDBDSN,
		config.FlagStateNamespace:      conf.StateNamespace,
		config.FlagStorageType:         conf.Type,
		config.FlagStorageDBDSN:        conf.DBDSN,
		config.FlagStorageTopic:        conf.Topic,
		config.FlagKafkaProducerCreds:  maskCredentials(conf.ProducerCredentials),
		config.FlagKafkaConsumerCreds:  maskCredentials(conf.ConsumerCredentials),
		config.FlagKafkaTrustStorePath: conf.TrustStorePath,
		config.FlagKafkaTimeout:        conf.KafkaTimeout.String(),
		config.FlagQRSize:              conf.QRSize,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func maskCredentials(creds string) string {
	if creds == "" {
		return ""
	}
	user := strings.SplitN(creds, ":", 2)[0]
	return user + ":***"
}
