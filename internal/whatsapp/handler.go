package whatsapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

type sendMessageRequest struct {
	ContactID string            `json:"contactId"`
	Content   string            `json:"content"`
	Type      MessageType       `json:"type"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type sendTemplateRequest struct {
	TemplateID string            `json:"templateId"`
	ContactID  string            `json:"contactId"`
	Variables  map[string]string `json:"variables"`
}

type createTemplateRequest struct {
	Name      string   `json:"name"`
	Content   string   `json:"content"`
	Variables []string `json:"variables"`
}

type connectAccountRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

func (h *Handler) ListarContatos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Contacts())
}

// ListarMensagens aceita ?contactId= para filtrar a conversa.
func (h *Handler) ListarMensagens(w http.ResponseWriter, r *http.Request) {
	contactID := r.URL.Query().Get("contactId")
	writeJSON(w, http.StatusOK, h.Store.Messages(contactID))
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
	msg := h.Store.SendMessage(req.ContactID, req.Content, req.Type, req.Metadata)
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) EnviarTemplate(w http.ResponseWriter, r *http.Request) {
	var req sendTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	msg, err := h.Store.SendTemplate(req.TemplateID, req.ContactID, req.Variables)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "template não encontrado", http.StatusNotFound)
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, verr)
		default:
			http.Error(w, "erro interno", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// MarcarLida registra o evento explícito de leitura.
func (h *Handler) MarcarLida(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.Store.MarkRead(id) {
		http.Error(w, "mensagem não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListarTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Templates())
}

func (h *Handler) CriarTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Content == "" {
		http.Error(w, "nome e conteúdo são obrigatórios", http.StatusBadRequest)
		return
	}
	t := h.Store.CreateTemplate(req.Name, req.Content, req.Variables)
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) ListarContas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Accounts())
}

func (h *Handler) ConectarConta(w http.ResponseWriter, r *http.Request) {
	var req connectAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.PhoneNumber == "" {
		http.Error(w, "número de telefone é obrigatório", http.StatusBadRequest)
		return
	}
	acc := h.Store.ConnectAccount(req.PhoneNumber)
	writeJSON(w, http.StatusCreated, acc)
}

func (h *Handler) DesconectarConta(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.Store.DisconnectAccount(id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
