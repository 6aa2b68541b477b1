package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"roombook/internal/bookings/service"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const MessageBookingRemoved = "Booking removed"

// Canonical non-negative integer: no sign, no leading zeros.
var indexPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)$`)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AddBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Add", err)
		return
	}

	bucket, err := h.service.Add(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Add", err)
		return
	}

	if err := httputil.WriteSuccess(w, bucket); err != nil {
		h.log.Error("failed to write success response", "handler", "Add", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	buckets, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, buckets); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bucket, err := h.service.GetByDate(r.Context(), ps.ByName("date"))
	if err != nil {
		h.writeError(w, "GetByDate", err)
		return
	}

	if err := httputil.WriteSuccess(w, bucket); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByDate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	indexStr := ps.ByName("index")
	index, err := strconv.Atoi(indexStr)
	if !indexPattern.MatchString(indexStr) || err != nil {
		h.writeError(w, "Remove", apperrors.InvalidInput("Invalid index").WithDetails(map[string]any{
			"index": indexStr,
		}))
		return
	}

	remaining, err := h.service.Remove(r.Context(), ps.ByName("date"), index)
	if err != nil {
		h.writeError(w, "Remove", err)
		return
	}

	if err := httputil.WriteSuccess(w, model.RemoveBookingResponse{
		Message:   MessageBookingRemoved,
		Remaining: remaining,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Remove", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/bookings", h.GetAll)
	router.POST("/api/bookings", h.Add)
	router.GET("/api/bookings/:date", h.GetByDate)
	router.DELETE("/api/bookings/:date/:index", h.Remove)
}
