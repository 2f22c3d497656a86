package visit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/fieldops-backend/internal/web"
)

// DefaultUpcomingLimit caps /visits/upcoming when no limit is given.
const DefaultUpcomingLimit = 5

// Handler exposes visit HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/visits", func(r chi.Router) {
		r.Get("/", h.listVisits) // ?store_id=...
		r.Post("/", h.schedule)
		r.Get("/upcoming", h.listUpcoming)
		r.Get("/performance", h.performance)
		r.Get("/{id}", h.getVisit)
		r.Put("/{id}", h.reschedule)
		r.Delete("/{id}", h.deleteVisit)
		r.Post("/{id}/complete", h.complete)
	})
}

func (h *Handler) listVisits(w http.ResponseWriter, r *http.Request) {
	var (
		visits []*Visit
		err    error
	)
	if raw := r.URL.Query().Get("store_id"); raw != "" {
		id, perr := uuid.Parse(raw)
		if perr != nil {
			web.Error(w, web.ErrInvalidID)
			return
		}
		visits, err = h.service.ListByStore(r.Context(), id.String())
	} else {
		visits, err = h.service.ListVisits(r.Context())
	}
	if err != nil {
		web.Error(w, err)
		return
	}
	if visits == nil {
		visits = []*Visit{}
	}
	web.Respond(w, http.StatusOK, visits)
}

func (h *Handler) listUpcoming(w http.ResponseWriter, r *http.Request) {
	visits, err := h.service.ListUpcoming(r.Context(), web.IntQuery(r, "limit", DefaultUpcomingLimit))
	if err != nil {
		web.Error(w, err)
		return
	}
	if visits == nil {
		visits = []*Visit{}
	}
	web.Respond(w, http.StatusOK, visits)
}

func (h *Handler) performance(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPerformanceMetrics(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, p)
}

func (h *Handler) getVisit(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	v, err := h.service.GetVisit(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, v)
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleVisitRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.service.Schedule(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, v)
}

func (h *Handler) reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req RescheduleRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.service.Reschedule(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, v)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req CompleteVisitRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := h.service.Complete(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, v)
}

func (h *Handler) deleteVisit(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
