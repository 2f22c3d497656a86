package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/fieldops-backend/internal/web"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public sign-up route.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/api/v1/users/register", h.registerUser)
}

// RegisterProtectedRoutes mounts routes that need a signed-in user.
func (h *Handler) RegisterProtectedRoutes(router chi.Router) {
	router.Get("/api/v1/users/{id}", h.getUser)
}

func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.Respond(w, http.StatusCreated, user)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}

	web.Respond(w, http.StatusOK, user)
}
