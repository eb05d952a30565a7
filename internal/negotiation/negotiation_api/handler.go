package negotiation_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/negotiation"
	"stagelink/internal/utils"
)

type Handler struct {
	Negotiation *negotiation.Service
	Identity    *identity.Service
	Logger      *logger.Logger
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.RequestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateRequest: failed to decode body: %v", err))
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	request, err := h.Negotiation.Create(r.Context(), session, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateRequest: %v", err))
		utils.WriteError(w, "Could not create request", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Request created", request))
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.RequestRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	request, err := h.Negotiation.Respond(r.Context(), session, chi.URLParam(r, "requestID"), req.Status)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Respond: %v", err))
		utils.WriteError(w, "Could not respond to request", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Request "+request.Status, request))
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	request, err := h.Negotiation.Get(r.Context(), session, chi.URLParam(r, "requestID"))
	if err != nil {
		utils.WriteError(w, "Request not found", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", request))
}

func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	requests, err := h.Negotiation.ListMine(r.Context(), session)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListMyRequests: %v", err))
		utils.WriteError(w, "Could not list requests", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", requests))
}

func (h *Handler) PromoteToEvent(w http.ResponseWriter, r *http.Request) {
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

	event, err := h.Negotiation.PromoteToEvent(r.Context(), session, chi.URLParam(r, "requestID"), req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PromoteToEvent: %v", err))
		utils.WriteError(w, "Could not create event from request", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created from request", event))
}
