package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"reserva/internal/bookings/service"
	"reserva/pkg/config"
	"reserva/pkg/datefmt"
	apperrors "reserva/pkg/errors"
	httputil "reserva/pkg/http"
	"reserva/pkg/middleware"
	"reserva/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
}

func NewBookingHandler(service service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service: service,
		cfg:     cfg,
	}
}

// mutationResponse reports the workflow outcome separately from notification
// delivery: the operation can succeed while the notice goes undelivered.
type mutationResponse struct {
	Booking          *model.BookingView `json:"booking"`
	NotificationSent bool               `json:"notification_sent"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "Create", apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, notified, err := h.service.Create(r.Context(), owner, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, mutationResponse{
		Booking:          h.view(booking),
		NotificationSent: notified,
	}); err != nil {
		h.logWriteFailure("Create", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "List", apperrors.Unauthorized("Authentication required"))
		return
	}

	bookings, err := h.service.ListByOwner(r.Context(), owner.UserID)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, h.views(bookings)); err != nil {
		h.logWriteFailure("List", err)
	}
}

func (h *BookingHandler) ListUpcoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "ListUpcoming", apperrors.Unauthorized("Authentication required"))
		return
	}

	bookings, err := h.service.ListUpcoming(r.Context(), owner.UserID)
	if err != nil {
		h.writeError(w, "ListUpcoming", err)
		return
	}

	if err := httputil.WriteSuccess(w, h.views(bookings)); err != nil {
		h.logWriteFailure("ListUpcoming", err)
	}
}

func (h *BookingHandler) ListCancelled(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "ListCancelled", apperrors.Unauthorized("Authentication required"))
		return
	}

	bookings, err := h.service.ListCancelled(r.Context(), owner.UserID)
	if err != nil {
		h.writeError(w, "ListCancelled", err)
		return
	}

	if err := httputil.WriteSuccess(w, h.views(bookings)); err != nil {
		h.logWriteFailure("ListCancelled", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "GetByID", apperrors.Unauthorized("Authentication required"))
		return
	}

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), owner.UserID)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, h.view(booking)); err != nil {
		h.logWriteFailure("GetByID", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Authentication required"))
		return
	}

	booking, notified, err := h.service.Cancel(r.Context(), ps.ByName("id"), owner)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, mutationResponse{
		Booking:          h.view(booking),
		NotificationSent: notified,
	}); err != nil {
		h.logWriteFailure("Cancel", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, "Delete", apperrors.Unauthorized("Authentication required"))
		return
	}

	if err := h.service.Delete(r.Context(), ps.ByName("id"), owner.UserID); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/upcoming", h.ListUpcoming)
	router.GET("/api/v1/bookings/cancelled", h.ListCancelled)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
}

func (h *BookingHandler) view(b *model.Booking) *model.BookingView {
	return &model.BookingView{
		Booking:              *b,
		ScheduledAtFormatted: datefmt.FormatInZone(b.ScheduledAt, h.cfg.Location),
	}
}

func (h *BookingHandler) views(bookings []*model.Booking) []*model.BookingView {
	out := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, h.view(b))
	}
	return out
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) logWriteFailure(handler string, err error) {
	h.cfg.Log.Error("failed to write response", "handler", handler, "error", err)
}
