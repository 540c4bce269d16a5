package http_api

import (
	"fmt"
	"net/http"

	. "github.com/labstack/echo/v4"

	cs "github.com/docstacker/docsign/client/api/http_api/context_service"
	"github.com/docstacker/docsign/common"
)

func contextServiceMiddleware(next HandlerFunc) HandlerFunc {
	return func(ctx Context) error {
		return next(cs.New(ctx))
	}
}

// Custom error handler
func customHTTPErrorHandler(logger common.Logger) HTTPErrorHandler {
	return func(err error, c Context) {
		code := http.StatusInternalServerError
		csError, ok := err.(*cs.CSErrorResp)
		if !ok {
			if he, ok := err.(*HTTPError); ok {
				code = he.Code
				csError = &cs.CSErrorResp{
					ErrorMessage: fmt.Sprintf("%v", he.Message),
				}
			} else {
				csError = &cs.CSErrorResp{
					ErrorMessage: http.StatusText(http.StatusInternalServerError),
				}
			}
		}
		if csError.Result == nil {
			csError.Result = struct{}{}
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, csError)
			}
			if err != nil {
				logger.Error("failed to send error response: %v", err)
			}
		}
	}
}
