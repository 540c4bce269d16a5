package context_service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/censync/go-dto"
	"github.com/censync/go-validator"
	"github.com/labstack/echo/v4"

	"github.com/docstacker/docsign/types"
)

type ContextService struct {
	echo.Context
}

func New(c echo.Context) *ContextService {
	return &ContextService{
		c,
	}
}

type CSJsonResp struct {
	Result interface{} `json:"result"`
}

// Custom error
type CSErrorResp struct {
	Result       interface{} `json:"result"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

func (e *CSErrorResp) Error() string {
	if e == nil {
		return ""
	}
	return e.ErrorMessage
}

// BindToRequest populates the request fields based on the context path and query parameters and body
// and validates the result.
func (cs *ContextService) BindToRequest(request interface{}) error {
	if err := cs.Bind(request); err != nil {
		return cs.JsonError(http.StatusBadRequest, fmt.Errorf("failed to read request body: %v", err))
	}
	if err := validator.Validate(request); !err.IsEmpty() {
		return cs.JsonError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// BindToDTO builds a request of the given form based on the context and converts it to a DTO.
func (cs *ContextService) BindToDTO(requestForm, dtoForm interface{}) error {
	if err := cs.BindToRequest(requestForm); err != nil {
		return err
	}
	if err := dto.RequestToDTO(dtoForm, requestForm); err != nil {
		return cs.JsonError(http.StatusBadRequest, err)
	}
	return nil
}

func (cs *ContextService) Json(code int, data interface{}) error {
	if data != nil {
		return cs.JSON(code, &CSJsonResp{
			Result: data,
		})
	} else {
		return cs.JSON(code, &CSJsonResp{
			Result: struct{}{},
		})
	}
}

func (cs *ContextService) JsonEmpty(code int) error {
	return cs.JSON(code, &CSJsonResp{
		Result: struct{}{},
	})
}

func (cs *ContextService) JsonError(code int, err error) error {
	if err == nil {
		return cs.JSON(code, &CSErrorResp{
			Result:       struct{}{},
			ErrorMessage: "undefined error",
		})
	} else {
		return cs.JSON(code, &CSErrorResp{
			Result:       struct{}{},
			ErrorMessage: err.Error(),
		})
	}
}

// ErrorStatus maps a workflow error to the HTTP status reported to clients.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDragInProgress), errors.Is(err, types.ErrRequestInFlight):
		return http.StatusConflict
	case errors.Is(err, types.ErrCollaboratorFailure):
		return http.StatusBadGateway
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrUnknownField),
		errors.Is(err, types.ErrInvalidSigner),
		errors.Is(err, types.ErrImageNotLoaded),
		errors.Is(err, types.ErrViewClosed),
		errors.Is(err, types.ErrNavigationUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// JsonServiceError writes err with the status derived from its kind.
func (cs *ContextService) JsonServiceError(err error) error {
	return cs.JsonError(ErrorStatus(err), err)
}
