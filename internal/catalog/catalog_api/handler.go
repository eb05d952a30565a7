package catalog_api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/catalog"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/utils"
)

type Handler struct {
	Catalog  *catalog.Service
	Identity *identity.Service
	Logger   *logger.Logger
}

// ---------------- PUBLIC LISTINGS ----------------

func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	filter := models.VenueFilter{
		City:    r.URL.Query().Get("city"),
		Amenity: r.URL.Query().Get("amenity"),
	}
	if v := r.URL.Query().Get("min_capacity"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinCapacity = n
		}
	}

	venues, err := h.Catalog.ListVenues(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListVenues: %v", err))
		utils.WriteError(w, "Could not list venues", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", venues))
}

func (h *Handler) GetVenue(w http.ResponseWriter, r *http.Request) {
	venue, err := h.Catalog.GetVenue(r.Context(), chi.URLParam(r, "venueID"))
	if err != nil {
		utils.WriteError(w, "Venue not found", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", venue))
}

func (h *Handler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.Catalog.ListArtists(r.Context(), r.URL.Query().Get("genre"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListArtists: %v", err))
		utils.WriteError(w, "Could not list artists", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", artists))
}

func (h *Handler) GetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := h.Identity.GetArtist(r.Context(), chi.URLParam(r, "artistID"))
	if err != nil {
		utils.WriteError(w, "Artist not found", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", artist))
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter{
		City:     r.URL.Query().Get("city"),
		VenueID:  r.URL.Query().Get("venue_id"),
		ArtistID: r.URL.Query().Get("artist_id"),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = ts
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = ts
		}
	}

	events, err := h.Catalog.ListEvents(r.Context(), filter)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListEvents: %v", err))
		utils.WriteError(w, "Could not list events", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", events))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Catalog.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		utils.WriteError(w, "Event not found", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", event))
}

// ---------------- OWNER MUTATIONS ----------------

func (h *Handler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	venue, err := h.Catalog.CreateVenue(r.Context(), session, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateVenue: %v", err))
		utils.WriteError(w, "Could not create venue", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Venue created", venue))
}

func (h *Handler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.VenueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	venue, err := h.Catalog.UpdateVenue(r.Context(), session, chi.URLParam(r, "venueID"), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateVenue: %v", err))
		utils.WriteError(w, "Could not update venue", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Venue updated", venue))
}

func (h *Handler) ListMyVenues(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	venues, err := h.Catalog.ListMyVenues(r.Context(), session)
	if err != nil {
		utils.WriteError(w, "Could not list venues", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", venues))
}

// ListVenueEvents is the owner's view of one venue's events: every
// status, not just published.
func (h *Handler) ListVenueEvents(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	events, err := h.Catalog.ListEventsByVenue(r.Context(), session, chi.URLParam(r, "venueID"))
	if err != nil {
		utils.WriteError(w, "Could not list events", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", events))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.EventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	event, err := h.Catalog.CreateEvent(r.Context(), session, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
		utils.WriteError(w, "Could not create event", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", event))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.EventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	event, err := h.Catalog.UpdateEvent(r.Context(), session, chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateEvent: %v", err))
		utils.WriteError(w, "Could not update event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event updated", event))
}

func (h *Handler) PublishEvent(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	event, err := h.Catalog.PublishEvent(r.Context(), session, chi.URLParam(r, "eventID"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PublishEvent: %v", err))
		utils.WriteError(w, "Could not publish event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event published", event))
}

func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	event, err := h.Catalog.CancelEvent(r.Context(), session, chi.URLParam(r, "eventID"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CancelEvent: %v", err))
		utils.WriteError(w, "Could not cancel event", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event canceled", event))
}
