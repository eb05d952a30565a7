package identity_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/auth"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/utils"
)

type Handler struct {
	Identity *identity.Service
	Logger   *logger.Logger
}

func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	principalID := auth.PrincipalID(r.Context())
	if principalID == "" {
		utils.WriteError(w, "Not authenticated", errs.ErrNotAuthenticated)
		return
	}

	var req models.ProfileCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateProfile: failed to decode body: %v", err))
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	profile, err := h.Identity.CreateProfile(r.Context(), principalID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateProfile: %v", err))
		utils.WriteError(w, "Could not create profile", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Profile created", profile))
}

func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	principalID := auth.PrincipalID(r.Context())
	if principalID == "" {
		utils.WriteError(w, "Not authenticated", errs.ErrNotAuthenticated)
		return
	}

	profile, err := h.Identity.GetProfile(r.Context(), principalID)
	if err != nil {
		utils.WriteError(w, "Profile not found", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", profile))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principalID := auth.PrincipalID(r.Context())
	if principalID == "" {
		utils.WriteError(w, "Not authenticated", errs.ErrNotAuthenticated)
		return
	}

	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	profile, err := h.Identity.UpdateProfile(r.Context(), principalID, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateProfile: %v", err))
		utils.WriteError(w, "Could not update profile", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Profile updated", profile))
}

func (h *Handler) UpdateArtist(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.ArtistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	artist, err := h.Identity.UpdateArtist(r.Context(), session, req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateArtist: %v", err))
		utils.WriteError(w, "Could not update artist profile", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Artist profile updated", artist))
}

// SetVerification is the admin review endpoint that flips a venue
// owner from pending to approved or rejected.
func (h *Handler) SetVerification(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ExtractTokenFromRequest(r)
	if err != nil || !auth.IsAdmin(token) {
		h.Logger.Warn("API", "SetVerification: non-admin caller rejected")
		utils.WriteError(w, "Admin role required", errs.ErrNotAuthorized)
		return
	}

	profileID := chi.URLParam(r, "profileID")

	var req models.VerificationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	if err := h.Identity.SetVerification(r.Context(), profileID, req.Status); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SetVerification: %v", err))
		utils.WriteError(w, "Could not update verification", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Verification updated", nil))
}
