package route

import (
	"context"
	"net/http"

	"github.com/evergreen-ci/gimlet"
	"github.com/pkg/errors"
)

// envelope is the JSON object every route responds with: a message or an
// error, plus the payload under an operation-specific key.
type envelope map[string]interface{}

// successResponse wraps payload under key with the given message.
func successResponse(status int, message, key string, payload interface{}) gimlet.Responder {
	return newEnvelopeResponse(status, envelope{
		"message": message,
		key:       payload,
	})
}

// writeSuccessResponse is the success envelope for creates and updates,
// which also carry a null error.
func writeSuccessResponse(status int, message, key string, payload interface{}) gimlet.Responder {
	return newEnvelopeResponse(status, envelope{
		"error":   nil,
		"message": message,
		key:       payload,
	})
}

// writeFailureResponse is the failure envelope for creates and updates,
// with the message and payload set to null.
func writeFailureResponse(status int, errMsg, key string) gimlet.Responder {
	return newEnvelopeResponse(status, envelope{
		"error":   errMsg,
		"message": nil,
		key:       nil,
	})
}

func notFoundResponse(msg string) gimlet.Responder {
	return newEnvelopeResponse(http.StatusNotFound, envelope{"error": msg})
}

func internalErrorResponse(err error) gimlet.Responder {
	return newEnvelopeResponse(http.StatusInternalServerError, envelope{"error": err.Error()})
}

func badRequestResponse(err error) gimlet.Responder {
	return newEnvelopeResponse(http.StatusBadRequest, envelope{"error": err.Error()})
}

func newEnvelopeResponse(status int, body envelope) gimlet.Responder {
	resp := gimlet.NewJSONResponse(body)
	if err := resp.SetStatus(status); err != nil {
		return gimlet.MakeJSONInternalErrorResponder(errors.Wrapf(err, "setting status code %d", status))
	}
	return resp
}

// envelopeHandler reports Parse failures of the wrapped handler as a 400
// envelope instead of gimlet's own error body.
type envelopeHandler struct {
	handler  gimlet.RouteHandler
	parseErr error
}

func withEnvelopeErrors(h gimlet.RouteHandler) gimlet.RouteHandler {
	return &envelopeHandler{handler: h}
}

func (h *envelopeHandler) Factory() gimlet.RouteHandler {
	return &envelopeHandler{handler: h.handler.Factory()}
}

func (h *envelopeHandler) Parse(ctx context.Context, r *http.Request) error {
	h.parseErr = h.handler.Parse(ctx, r)
	return nil
}

func (h *envelopeHandler) Run(ctx context.Context) gimlet.Responder {
	if h.parseErr != nil {
		return badRequestResponse(h.parseErr)
	}
	return h.handler.Run(ctx)
}
