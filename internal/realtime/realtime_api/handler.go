package realtime_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/catalog"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/realtime"
	"stagelink/internal/utils"
)

// Handler exposes the venue dashboard stream: request updates and
// bookings for a single venue, pushed to its owner over SSE.
type Handler struct {
	Identity *identity.Service
	Catalog  *catalog.Service
	Emitter  *realtime.Emitter
	Logger   *logger.Logger
}

func (h *Handler) StreamVenueDashboard(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueID")
	if venueID == "" {
		http.Error(w, "Venue ID is required", http.StatusBadRequest)
		return
	}

	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized access", http.StatusUnauthorized)
		return
	}

	venue, err := h.Catalog.GetVenue(r.Context(), venueID)
	if err != nil {
		utils.WriteError(w, "Venue not found", err)
		return
	}
	if venue.OwnerID != session.PrincipalID {
		h.Logger.Error("SSE", fmt.Sprintf("Venue access verification failed: venue=%s caller=%s", venueID, session.PrincipalID))
		http.Error(w, "Unauthorized access", http.StatusUnauthorized)
		return
	}

	setupSSEHeaders(w)

	// Context cancels when the client disconnects
	ctx := r.Context()
	eventChan := h.Emitter.SubscribeToVenue(ctx, venueID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"venueID\":\"%s\"}\n\n", venueID)
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to venue dashboard: %s", venueID))

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				h.Logger.Debug("SSE", fmt.Sprintf("Channel closed for venue: %s", venueID))
				return
			}

			jsonData, err := json.Marshal(event)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize dashboard event: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, jsonData)
			w.(http.Flusher).Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from venue dashboard: %s", venueID))
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
