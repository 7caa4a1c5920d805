package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"enchanted-day/backend/internal/interfaces"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/service"
	"enchanted-day/backend/internal/stream"
)

// ChatHandler serves the chat endpoints.
type ChatHandler struct {
	service interfaces.ChatService
}

func NewChatHandler(svc interfaces.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleStreamPrompt answers POST /chat/stream with server-sent events,
// finishing with a [DONE] frame.
func (h *ChatHandler) HandleStreamPrompt(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req service.PromptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	stream.SetHeaders(w)
	w.WriteHeader(http.StatusOK)
	sw := stream.NewWriter(w)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events := make(chan model.StreamEvent)
	go h.service.HandlePrompt(ctx, uid, &req, events)

	clientGone := false
	for ev := range events {
		if clientGone {
			continue
		}
		if err := sw.WriteEvent(ev); err != nil {
			slog.Warn("Client disconnected during stream", "user_id", uid, "error", err)
			clientGone = true
			cancel()
		}
	}
	if clientGone {
		return
	}
	if err := sw.WriteDone(); err != nil {
		slog.Warn("Failed to write stream terminator", "user_id", uid, "error", err)
	}
}

// HandleComplete answers POST /chat with a single JSON reply.
func (h *ChatHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req service.PromptRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	resp, err := h.service.Complete(r.Context(), uid, &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	chats, err := h.service.ListChats(r.Context(), uid)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	fullChat, err := h.service.GetFullChat(r.Context(), uid, chi.URLParam(r, "chatID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, fullChat)
}

func (h *ChatHandler) HandleDeleteChat(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.service.DeleteChat(r.Context(), uid, chi.URLParam(r, "chatID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
