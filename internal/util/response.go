package util

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds shared by every handler. Wrap them (or build an APIError)
// and let Fail pick the status code.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

// Default user-facing messages per kind.
const (
	MsgUnauthenticated = "Não autorizado"
	MsgForbidden       = "Acesso negado"
	MsgNotFound        = "Registro não encontrado"
	MsgValidation      = "Dados inválidos"
	MsgConflict        = "Operação não permitida no estado atual"
	MsgServerErr       = "Erro interno do servidor"
)

// APIError carries a user-facing message alongside one of the error kinds.
type APIError struct {
	Kind error
	Msg  string
}

func (e *APIError) Error() string { return e.Kind.Error() + ": " + e.Msg }

func (e *APIError) Unwrap() error { return e.Kind }

// Invalid reports malformed or missing input.
func Invalid(msg string) error { return &APIError{Kind: ErrValidation, Msg: msg} }

// NotFound reports a missing record with a resource specific message.
func NotFound(msg string) error { return &APIError{Kind: ErrNotFound, Msg: msg} }

// Conflict reports an operation rejected by the record's current state.
func Conflict(msg string) error { return &APIError{Kind: ErrConflict, Msg: msg} }

// Status maps an error to its HTTP status and user-facing message.
func Status(err error) (int, string) {
	var status int
	var msg string
	switch {
	case errors.Is(err, ErrUnauthenticated):
		status, msg = http.StatusUnauthorized, MsgUnauthenticated
	case errors.Is(err, ErrForbidden):
		status, msg = http.StatusForbidden, MsgForbidden
	case errors.Is(err, ErrNotFound):
		status, msg = http.StatusNotFound, MsgNotFound
	case errors.Is(err, ErrValidation):
		status, msg = http.StatusBadRequest, MsgValidation
	case errors.Is(err, ErrConflict):
		status, msg = http.StatusConflict, MsgConflict
	default:
		return http.StatusInternalServerError, MsgServerErr
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Msg != "" {
		msg = apiErr.Msg
	}
	return status, msg
}

// Success writes data as the JSON body.
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// Error writes the error body {"error": msg}.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"error": msg,
	})
}

// Fail converts err into a JSON error response. Server errors are logged
// with their detail and answered with an opaque message.
func Fail(c *gin.Context, err error) {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	Error(c, status, msg)
}
