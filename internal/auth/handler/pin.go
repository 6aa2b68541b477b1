package handler

import (
	"errors"
	"net/http"

	"roombook/internal/auth/verifier"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	MessagePinRequired = "PIN is required"
	MessagePinValid    = "PIN is valid"
	MessagePinInvalid  = "Invalid PIN"
)

type PinVerifier interface {
	Verify(candidate string) (bool, error)
}

type PinHandler struct {
	verifier PinVerifier
	guard    func(http.Handler) http.Handler
	log      *logger.Logger
}

// NewPinHandler serves PIN checks behind guard, which sees every attempt
// before the verifier does.
func NewPinHandler(v PinVerifier, guard func(http.Handler) http.Handler, log *logger.Logger) *PinHandler {
	return &PinHandler{
		verifier: v,
		guard:    guard,
		log:      log,
	}
}

func (h *PinHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req model.PinRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	if req.Pin == "" {
		h.writeError(w, apperrors.InvalidInput(MessagePinRequired))
		return
	}

	ok, err := h.verifier.Verify(req.Pin)
	if err != nil {
		if errors.Is(err, verifier.ErrInvalidFormat) {
			h.writeError(w, apperrors.Validation("PIN must be 4 to 6 digits", nil))
			return
		}
		h.log.Error("PIN verification failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		h.writeError(w, apperrors.Internal("Failed to verify PIN", err))
		return
	}

	if !ok {
		h.log.Warn("PIN rejected", "request_id", middleware.RequestIDFromContext(r.Context()))
		h.writeError(w, apperrors.Unauthorized(MessagePinInvalid))
		return
	}

	h.log.Info("PIN accepted", "request_id", middleware.RequestIDFromContext(r.Context()))
	if err := httputil.WriteMessage(w, MessagePinValid); err != nil {
		h.log.Error("failed to write message response", "handler", "Validate", "operation", "WriteMessage", "error", err)
	}
}

func (h *PinHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Validate", "operation", "WriteError", "error", writeErr)
	}
}

func (h *PinHandler) RegisterRoutes(router *httprouter.Router) {
	var validate http.Handler = http.HandlerFunc(h.Validate)
	if h.guard != nil {
		validate = h.guard(validate)
	}
	router.Handler(http.MethodPost, "/api/validate-pin", validate)
}
