package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

type sendMessageRequest struct {
	ConversationID string      `json:"conversationId"`
	SenderID       string      `json:"senderId"`
	Content        string      `json:"content"`
	Type           MessageType `json:"type"`
}

type createConversationRequest struct {
	Participants []string `json:"participants"`
}

func (h *Handler) ListarConversas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Conversations())
}

func (h *Handler) CriarConversa(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	conv := h.Store.CreateConversation(req.Participants)
	writeJSON(w, http.StatusCreated, conv)
}

func (h *Handler) ListarMensagens(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	writeJSON(w, http.StatusOK, h.Store.Messages(id))
}

func (h *Handler) EnviarMensagem(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "mensagem vazia", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = TypeText
	}
	msg := h.Store.SendMessage(req.ConversationID, req.SenderID, req.Content, req.Type)
	writeJSON(w, http.StatusCreated, msg)
}

// MarcarLida registra o evento explícito de leitura do destinatário.
func (h *Handler) MarcarLida(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.Store.MarkRead(id) {
		http.Error(w, "mensagem não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
