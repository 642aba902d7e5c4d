package automation

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	Engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

type toggleRequest struct {
	IsActive bool `json:"isActive"`
}

func (h *Handler) ListarRegras(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Engine.Rules())
}

func (h *Handler) CriarRegra(w http.ResponseWriter, r *http.Request) {
	var rule Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if rule.Name == "" {
		http.Error(w, "nome é obrigatório", http.StatusBadRequest)
		return
	}
	created := h.Engine.CreateRule(rule)
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) AlternarRegra(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if !h.Engine.ToggleRule(id, req.IsActive) {
		http.Error(w, "regra não encontrada", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
