package http_api

import (
	"context"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"

	"github.com/docstacker/docsign/client/api/http_api/router"
	"github.com/docstacker/docsign/client/config"
	"github.com/docstacker/docsign/client/services"
)

type RESTApiProvider struct {
	config       *config.HttpApiConfig
	echoInstance *echo.Echo
}

func (p *RESTApiProvider) NewServer(conf *config.Config, sp *services.ServiceProvider) error {
	p.config = &conf.HttpApiConfig

	p.echoInstance = echo.New()

	p.echoInstance.HideBanner = true
	p.echoInstance.HidePort = true
	p.echoInstance.Debug = conf.Debug

	p.echoInstance.HTTPErrorHandler = customHTTPErrorHandler(sp.Logger())

	// Middlewares

	if conf.Debug {
		p.echoInstance.Use(echo_middleware.Logger())
	}
	p.echoInstance.Use(echo_middleware.Recover())

	p.echoInstance.Use(contextServiceMiddleware)

	router.SetRouter(p.echoInstance, sp)

	return nil
}

// Handler exposes the configured server for in-process use.
func (p *RESTApiProvider) Handler() *echo.Echo {
	return p.echoInstance
}

func (p *RESTApiProvider) Start() error {
	return p.echoInstance.Start(p.config.ListenAddr)
}

func (p *RESTApiProvider) Stop(ctx context.Context) error {
	return p.echoInstance.Shutdown(ctx)
}
