package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/KromaEnergia/crm-vendas/internal/cache"
	"github.com/KromaEnergia/crm-vendas/internal/storage"
	"github.com/KromaEnergia/crm-vendas/internal/validation"
)

type Handler struct {
	API   *API
	Cache *cache.Cache
}

func NewHandler(api *API, c *cache.Cache) *Handler {
	return &Handler{API: api, Cache: c}
}

func (h *Handler) ListarContratos(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColContracts, func(ctx context.Context) (any, error) {
		return h.API.Contracts(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":      res.Data,
		"isLoading": res.IsLoading,
		"isStale":   res.IsStale,
	})
}

func (h *Handler) BuscarContrato(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := h.API.Contract(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) CriarContrato(w http.ResponseWriter, r *http.Request) {
	var c Contract
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			return h.API.Create(ctx, c)
		},
		Invalidate: []string{storage.ColContracts},
		Success: func(any) (string, string) {
			return "Sucesso", "Contrato criado com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível criar o contrato"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) RemoverContrato(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	_, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			return nil, h.API.Delete(ctx, id)
		},
		Invalidate: []string{storage.ColContracts},
		Success: func(any) (string, string) {
			return "Sucesso", "Contrato removido"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível remover o contrato"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondErr(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "registro não encontrado", http.StatusNotFound)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, verr)
	default:
		http.Error(w, "erro interno", http.StatusInternalServerError)
	}
}
