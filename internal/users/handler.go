package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/KromaEnergia/crm-vendas/internal/auth"
	"github.com/KromaEnergia/crm-vendas/internal/policy"
)

// request DTOs
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Avatar      string   `json:"avatar"`
	CompanyID   string   `json:"companyId"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Tokens     *auth.Manager
	Authz      *policy.Authorizer
}

// NewHandler retorna um handler inicializado
func NewHandler(db *gorm.DB, tokens *auth.Manager) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Tokens:     tokens,
		Authz:      policy.NewAuthorizer(),
	}
}

// Login gera um JWT para credenciais válidas e devolve o usuário junto
// do token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.BuscarPorEmail(h.DB, req.Email)
	if err != nil {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	if !CheckSenha(user.Password, req.Password) {
		http.Error(w, "senha incorreta", http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.GerarToken(user.ID, user.Permissions)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"user":  user,
		"token": token,
	})
}

// CriarUsuario cadastra um novo usuário. A rota fica atrás de
// auth.RequirePermission("users:manage").
func (h *Handler) CriarUsuario(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email e senha são obrigatórios", http.StatusBadRequest)
		return
	}

	hash, err := HashSenha(req.Password)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	u := User{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    hash,
		Role:        req.Role,
		Permissions: req.Permissions,
		Avatar:      req.Avatar,
		CompanyID:   req.CompanyID,
	}

	if err := h.Repository.Salvar(h.DB, &u); err != nil {
		http.Error(w, "erro ao salvar usuário", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

// ListarUsuarios retorna todos os usuários ou, sem permissão de
// gestão, apenas o próprio registro.
func (h *Handler) ListarUsuarios(w http.ResponseWriter, r *http.Request) {
	if !h.Authz.Can(auth.Permissions(r.Context()), "users:manage") {
		u, err := h.Repository.BuscarPorID(h.DB, auth.UserID(r.Context()))
		if err != nil {
			http.Error(w, "usuário não encontrado", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]User{*u})
		return
	}

	us, err := h.Repository.ListarTodos(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(us)
}

// BuscarUsuario retorna um usuário pelo id.
func (h *Handler) BuscarUsuario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	u, err := h.Repository.BuscarPorID(h.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "usuário não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar usuário", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

// AtualizarUsuario altera nome, papel, permissões e avatar. A rota fica
// atrás de auth.RequirePermission("users:manage").
func (h *Handler) AtualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var novos User
	if err := json.NewDecoder(r.Body).Decode(&novos); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Atualizar(h.DB, id, &novos); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "usuário não encontrado", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao atualizar usuário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletarUsuario remove o usuário. A rota fica atrás de
// auth.RequirePermission("users:manage").
func (h *Handler) DeletarUsuario(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Repository.Deletar(h.DB, id); err != nil {
		http.Error(w, "erro ao remover usuário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MinhasPermissoes devolve as permissões do token, útil para a
// interface montar menus.
func (h *Handler) MinhasPermissoes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"userId":      auth.UserID(r.Context()),
		"permissions": auth.Permissions(r.Context()),
	})
}
