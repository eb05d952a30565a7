package analytics_api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/analytics"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/utils"
)

type Handler struct {
	Analytics *analytics.Service
	Identity  *identity.Service
	Logger    *logger.Logger
}

func (h *Handler) EventSales(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	report, err := h.Analytics.GetEventSales(r.Context(), session, chi.URLParam(r, "eventID"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("EventSales: %v", err))
		utils.WriteError(w, "Could not load event sales", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", report))
}

func (h *Handler) VenueSales(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	report, err := h.Analytics.GetVenueSales(r.Context(), session, chi.URLParam(r, "venueID"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("VenueSales: %v", err))
		utils.WriteError(w, "Could not load venue sales", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", report))
}
