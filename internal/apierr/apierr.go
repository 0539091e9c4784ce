// Package apierr defines the API error contract: every failure surfaces as a
// JSON body with a single detail string and a meaningful status code.
package apierr

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"optionhub-api/pkg/upstream"
)

// Error is a request failure with an HTTP status.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// New builds an Error.
func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

// Common failures with fixed details.
var (
	ErrInvalidToken   = New(http.StatusUnauthorized, "Invalid token")
	ErrUnknownSymbol  = New(http.StatusNotFound, "Unknown symbol")
	ErrNotImplemented = New(http.StatusNotImplemented, "Source not implemented")
)

// body is the wire shape of an error response.
type body struct {
	Detail string `json:"detail"`
}

// FromUpstream maps an upstream failure onto the API contract: timeouts
// become 504, everything else a 502 carrying the error text.
func FromUpstream(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return New(http.StatusGatewayTimeout, "Upstream timed out: "+err.Error())
	}
	return New(http.StatusBadGateway, "Upstream error: "+err.Error())
}

// SetupErrorHandler installs the detail-body error contract on httpx.
func SetupErrorHandler() {
	httpx.SetErrorHandlerCtx(func(ctx context.Context, err error) (int, any) {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return apiErr.Status, body{Detail: apiErr.Detail}
		}
		var statusErr *upstream.StatusError
		if errors.As(err, &statusErr) {
			return http.StatusBadGateway, body{Detail: "Upstream error: " + statusErr.Error()}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, body{Detail: "Upstream timed out"}
		}
		return http.StatusInternalServerError, body{Detail: err.Error()}
	})
}

// Write renders an Error directly, for handlers that bypass httpx.Error.
func Write(w http.ResponseWriter, err *Error) {
	httpx.WriteJson(w, err.Status, body{Detail: err.Detail})
}
