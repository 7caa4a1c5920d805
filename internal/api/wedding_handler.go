package api

import (
	"net/http"

	"enchanted-day/backend/internal/interfaces"
	"enchanted-day/backend/internal/model"
	"enchanted-day/backend/internal/service"
)

// WeddingHandler serves the user's wedding session.
type WeddingHandler struct {
	service interfaces.WeddingService
}

func NewWeddingHandler(svc interfaces.WeddingService) *WeddingHandler {
	return &WeddingHandler{service: svc}
}

// SelectedWeddingResponse is returned by the selected-wedding endpoints.
type SelectedWeddingResponse struct {
	SelectedID string         `json:"selected_id,omitempty"`
	Wedding    *model.Wedding `json:"wedding,omitempty"`
}

func selected(session *service.WeddingSession) SelectedWeddingResponse {
	resp := SelectedWeddingResponse{SelectedID: session.SelectedID}
	if w, ok := session.Selected(); ok {
		resp.Wedding = &w
	}
	return resp
}

func (h *WeddingHandler) GetWeddings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.service.Current(r.Context(), uid)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

func (h *WeddingHandler) RefreshWeddings(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.service.Refresh(r.Context(), uid)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

func (h *WeddingHandler) CreateWedding(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req service.CreateWeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	wedding, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, wedding)
}

func (h *WeddingHandler) GetSelected(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.service.Current(r.Context(), uid)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, selected(session))
}

func (h *WeddingHandler) PutSelected(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	var req SelectWeddingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	session, err := h.service.Select(r.Context(), uid, req.WeddingID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, selected(session))
}
