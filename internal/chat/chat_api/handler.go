package chat_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagelink/internal/chat"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/realtime"
	"stagelink/internal/utils"
)

type Handler struct {
	Chat     *chat.Service
	Identity *identity.Service
	Emitter  *realtime.Emitter
	Logger   *logger.Logger
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	var req models.MessageSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "Invalid request body", errs.ErrInvalidInput)
		return
	}

	message, err := h.Chat.Send(r.Context(), session, chi.URLParam(r, "requestID"), req.Content)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("SendMessage: %v", err))
		utils.WriteError(w, "Could not send message", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Message sent", message))
}

func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		utils.WriteError(w, "Not authenticated", err)
		return
	}

	messages, err := h.Chat.Retrieve(r.Context(), session, chi.URLParam(r, "requestID"))
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetThread: %v", err))
		utils.WriteError(w, "Could not load messages", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("OK", messages))
}

// StreamThread streams a request's chat messages over SSE. Access is
// gated the same way as reads: participants of an accepted request.
func (h *Handler) StreamThread(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")
	if requestID == "" {
		http.Error(w, "Request ID is required", http.StatusBadRequest)
		return
	}

	session, err := h.Identity.Resolve(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized access", http.StatusUnauthorized)
		return
	}
	if err := h.Chat.Authorize(r.Context(), session, requestID); err != nil {
		h.Logger.Error("SSE", fmt.Sprintf("Thread access verification failed: %v", err))
		http.Error(w, "Unauthorized access", http.StatusUnauthorized)
		return
	}

	setupSSEHeaders(w)

	// Context cancels when the client disconnects
	ctx := r.Context()
	messageChan := h.Emitter.SubscribeToThread(ctx, requestID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"requestID\":\"%s\"}\n\n", requestID)
	w.(http.Flusher).Flush()

	h.Logger.Info("SSE", fmt.Sprintf("Client connected to chat thread: %s", requestID))

	for {
		select {
		case message, ok := <-messageChan:
			if !ok {
				h.Logger.Debug("SSE", fmt.Sprintf("Channel closed for thread: %s", requestID))
				return
			}

			jsonData, err := json.Marshal(message)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize message: %v", err))
				continue
			}

			fmt.Fprintf(w, "event: message\ndata: %s\n\n", jsonData)
			w.(http.Flusher).Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from thread: %s", requestID))
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
