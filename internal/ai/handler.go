package ai

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

type sendRequest struct {
	Content string `json:"content"`
}

func (h *Handler) ListarMensagens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"messages":     h.Store.Messages(),
		"isProcessing": h.Store.IsProcessing(),
	})
}

func (h *Handler) EnviarMensagem(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "mensagem vazia", http.StatusBadRequest)
		return
	}
	reply, err := h.Store.SendMessage(r.Context(), req.Content)
	if err != nil {
		http.Error(w, "falha ao processar mensagem, tente novamente", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
