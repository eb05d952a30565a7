package booking_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/booking"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/utils"
)

type Handler struct {
	Booking  *booking.Service
	Identity *identity.Service
	Logger   *logger.Logger
}

func (h *Handler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.TicketTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	ticket, err := h.Booking.CreateTicketType(r.Context(), session, chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateTicketType: %v", err))
		utils.WriteError(w, "Could not create ticket type", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Ticket type created", ticket))
}

func (h *Handler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.Booking.ListTicketTypes(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListTicketTypes: %v", err))
		utils.WriteError(w, "Could not list ticket types", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", tickets))
}

func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Reserve: failed to decode body: %v", err))
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	response, err := h.Booking.Reserve(r.Context(), session, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Reserve: %v", err))
		utils.WriteError(w, "Could not complete booking", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Booking confirmed", response))
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	booking, err := h.Booking.GetBooking(r.Context(), session, chi.URLParam(r, "bookingID"))
	if err != nil {
		utils.WriteError(w, "Booking not found", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", booking))
}

func (h *Handler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	bookings, err := h.Booking.ListMyBookings(r.Context(), session)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyBookings: %v", err))
		utils.WriteError(w, "Could not list bookings", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", bookings))
}
