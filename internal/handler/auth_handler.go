package handler

import (
	"encoding/json"
	"net/http"

	"github.com/HoaiNhu/RCM-System/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // solo en register
}

// @Summary Registro de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "email y password"
// @Success 201 {object} models.UserDoc
// @Failure 400 {string} string "body inválido"
// @Failure 409 {string} string "email ya registrado"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Role)
	switch err {
	case nil:
		writeJSON(w, http.StatusCreated, u)
	case service.ErrEmailTaken:
		http.Error(w, err.Error(), http.StatusConflict)
	case service.ErrInvalidCredentials:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "email y password"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {string} string "credenciales inválidas"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	token, u, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err == service.ErrInvalidCredentials {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  u,
	})
}
