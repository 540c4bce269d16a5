package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/docstacker/docsign/client/api/http_api"
	"github.com/docstacker/docsign/client/config"
	"github.com/docstacker/docsign/client/services"
)

const shutdownTimeout = 10 * time.Second

type IServerAbstractFactory interface {
	NewServer(config *config.Config, sp *services.ServiceProvider) error
	Start() error
	Stop(ctx context.Context) error
}

type InstanceFactory struct {
	apiFactory IServerAbstractFactory
}

// Run serves the REST API until ctx is cancelled.
func Run(ctx context.Context, conf *config.Config, sp *services.ServiceProvider) error {
	factoryInstance := InstanceFactory{
		apiFactory: &http_api.RESTApiProvider{},
	}

	if err := factoryInstance.apiFactory.NewServer(conf, sp); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- factoryInstance.apiFactory.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return factoryInstance.apiFactory.Stop(stopCtx)
	}
}
