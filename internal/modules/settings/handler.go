package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/fieldops-backend/internal/web"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/settings", h.getSettings)
	r.Put("/api/v1/settings", h.updateSettings)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, s)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req Settings
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.service.Update(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, s)
}
