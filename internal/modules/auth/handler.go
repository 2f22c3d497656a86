package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/fieldops-backend/internal/validation"
	"github.com/georgemunganga/fieldops-backend/internal/web"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/v1/auth/login", h.login)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.Validate(req); err != nil {
		web.Error(w, err)
		return
	}
	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		web.Message(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, token)
}
