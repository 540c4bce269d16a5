package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/client/config"
)

func TestPrintConfigRoundTrip(t *testing.T) {
	req := require.New(t)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.SetFlags(flags)
	req.NoError(flags.Parse([]string{"--qr_size", "300", "--producer_credentials", "producer:secret"}))
	conf, err := config.Load(flags)
	req.NoError(err)

	var out bytes.Buffer
	req.NoError(printConfig(&out, conf))
	req.Contains(out.String(), "qr_size: 300")
	req.Contains(out.String(), "producer_credentials: producer:***")
	req.NotContains(out.String(), "secret")

	path := filepath.Join(t.TempDir(), "docsign.yaml")
	req.NoError(os.WriteFile(path, out.Bytes(), 0600))

	flags = pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.SetFlags(flags)
	req.NoError(flags.Parse([]string{"--config", path}))
	reloaded, err := config.Load(flags)
	req.NoError(err)
	req.Equal(300, reloaded.QRSize)
	req.Equal(conf.BackendConfig.Timeout, reloaded.BackendConfig.Timeout)
	req.Equal(conf.StateDBDSN, reloaded.StateDBDSN)
}
