package proposals

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

// Handler encapsula store, API e cache de propostas
type Handler struct {
	Store *Store
	API   *API
	Cache *cache.Cache

	// StatusChanged é chamado após transição de status (automação).
	StatusChanged func(Proposal)
}

func NewHandler(store *Store, api *API, c *cache.Cache) *Handler {
	return &Handler{Store: store, API: api, Cache: c}
}

type statusRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) ListarPropostas(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColProposals, func(ctx context.Context) (any, error) {
		return h.API.Proposals(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readPayload{Data: res.Data, IsLoading: res.IsLoading, IsStale: res.IsStale})
}

func (h *Handler) BuscarProposta(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.API.Proposal(r.Context(), id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) CriarProposta(w http.ResponseWriter, r *http.Request) {
	var p Proposal
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			created, err := h.API.CreateProposal(ctx, p)
			if err != nil {
				return nil, err
			}
			h.Store.AddProposal(*created)
			return created, nil
		},
		Invalidate: []string{storage.ColProposals},
		Success: func(any) (string, string) {
			return "Sucesso", "Proposta criada com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível criar a proposta"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) AtualizarProposta(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			updated, err := h.API.UpdateProposal(ctx, id, patch)
			if err != nil {
				return nil, err
			}
			h.Store.UpdateProposal(id, patch)
			return updated, nil
		},
		Invalidate: []string{storage.ColProposals},
		Success: func(any) (string, string) {
			return "Sucesso", "Proposta atualizada com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível atualizar a proposta"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// AtualizarStatus aplica a transição de status da proposta
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			updated, err := h.API.UpdateStatus(ctx, id, req.Status)
			if err != nil {
				return nil, err
			}
			h.Store.UpdateStatus(id, req.Status)
			return updated, nil
		},
		Invalidate: []string{storage.ColProposals},
		Success: func(v any) (string, string) {
			p := v.(*Proposal)
			return "Proposta atualizada", p.Title + " agora está " + string(p.Status)
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível atualizar o status da proposta"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	updated := v.(*Proposal)
	if h.StatusChanged != nil {
		h.StatusChanged(*updated)
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) RemoverProposta(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	_, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			if err := h.API.DeleteProposal(ctx, id); err != nil {
				return nil, err
			}
			h.Store.RemoveProposal(id)
			return nil, nil
		},
		Invalidate: []string{storage.ColProposals},
		Success: func(any) (string, string) {
			return "Sucesso", "Proposta removida"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível remover a proposta"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListarTemplates(w http.ResponseWriter, r *http.Request) {
	res, err := h.Cache.Read(r.Context(), storage.ColProposalTemplates, func(ctx context.Context) (any, error) {
		return h.API.Templates(ctx)
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, readPayload{Data: res.Data, IsLoading: res.IsLoading, IsStale: res.IsStale})
}

func (h *Handler) CriarTemplate(w http.ResponseWriter, r *http.Request) {
	var t Template
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	v, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			created, err := h.API.CreateTemplate(ctx, t)
			if err != nil {
				return nil, err
			}
			h.Store.AddTemplate(*created)
			return created, nil
		},
		Invalidate: []string{storage.ColProposalTemplates},
		Success: func(any) (string, string) {
			return "Sucesso", "Template criado com sucesso"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível criar o template"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *Handler) RemoverTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	_, err := h.Cache.Mutate(r.Context(), cache.Mutation{
		Run: func(ctx context.Context) (any, error) {
			if err := h.API.DeleteTemplate(ctx, id); err != nil {
				return nil, err
			}
			h.Store.RemoveTemplate(id)
			return nil, nil
		},
		Invalidate: []string{storage.ColProposalTemplates},
		Success: func(any) (string, string) {
			return "Sucesso", "Template removido"
		},
		Error: func(error) (string, string) {
			return "Erro", "Não foi possível remover o template"
		},
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type readPayload struct {
	Data      any  `json:"data"`
	IsLoading bool `json:"isLoading"`
	IsStale   bool `json:"isStale"`
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
