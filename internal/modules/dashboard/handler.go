package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/fieldops-backend/internal/web"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/v1/dashboard", h.getDashboard)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDashboard(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, d)
}
