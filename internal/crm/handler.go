package crm

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

// Handler encapsula store, API, cache e engine do CRM
type Handler struct {
	Store  *Store
	API    *API
	Cache  *cache.Cache
	Engine *Engine

	// LeadCreated é chamado após criar um lead (gatilho de automação).
	LeadCreated func(Lead)
}

// NewHandler retorna um handler inicializado
func NewHandler(store *Store, api *API, c *cache.Cache, engine *Engine) *Handler {
	return &Handler{Store: store, API: api, Cache: c, Engine: engine}
}

type moveDealRequest struct {
	StageID string `json:"stageId"`
}

// ListarDeals responde a leitura cacheada da coleção de negócios
func (h *Handler) ListarDeals(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColDeals, func(ctx context.Context) (any, error) {
		return h.API.Deals(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readResponse(res))
}

func (h *Handler) BuscarDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res, err := h.Cache.Read(r.Context(), DealKey(id), func(ctx context.Context) (any, error) {
		return h.API.Deal(ctx, id)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readResponse(res))
}

func (h *Handler) CriarDeal(w http.ResponseWriter, r *http.Request) {
	var d Deal
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			created, err := h.API.CreateDeal(ctx, d)
			if err != nil {
				return nil, err
			}
			h.Store.AddDeal(*created)
			return created, nil
		},
		Invalidate: []string{storage.ColDeals},
		Success: func(any) (string, string) {
			return "Sucesso", "Negócio criado com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível criar o negócio"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) AtualizarDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch DealPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			updated, err := h.API.UpdateDeal(ctx, id, patch)
			if err != nil {
				return nil, err
			}
			h.Store.UpdateDeal(id, patch)
			return updated, nil
		},
		Invalidate: []string{storage.ColDeals},
		Success: func(any) (string, string) {
			return "Sucesso", "Negócio atualizado com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível atualizar o negócio"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	updated := v.(*Deal)
	h.Cache.Prime(DealKey(id), updated)
	writeJSON(w, http.StatusOK, updated)
}

// MoverDeal aplica a transição de etapa via engine
func (h *Handler) MoverDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req moveDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	deal, err := h.Engine.MoveDeal(r.Context(), id, req.StageID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *Handler) ListarPipelines(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColPipelines, func(ctx context.Context) (any, error) {
		return h.API.Pipelines(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readResponse(res))
}

func (h *Handler) ListarLeads(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColLeads, func(ctx context.Context) (any, error) {
		return h.API.Leads(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readResponse(res))
}

func (h *Handler) CriarLead(w http.ResponseWriter, r *http.Request) {
	var l Lead
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			created, err := h.API.CreateLead(ctx, l)
			if err != nil {
				return nil, err
			}
			h.Store.AddLead(*created)
			return created, nil
		},
		Invalidate: []string{storage.ColLeads},
		Success: func(any) (string, string) {
			return "Sucesso", "Lead criado com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível criar o lead"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	created := v.(*Lead)
	if h.LeadCreated != nil {
		h.LeadCreated(*created)
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListarContatos(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColContacts, func(ctx context.Context) (any, error) {
		return h.API.Contacts(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readResponse(res))
}

type readPayload struct {
	Data      any  `json:"data"`
	IsLoading bool `json:"isLoading"`
	IsStale   bool `json:"isStale"`
}

func readResponse(res cache.Result) readPayload {
	return readPayload{Data: res.Data, IsLoading: res.IsLoading, IsStale: res.IsStale}
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
