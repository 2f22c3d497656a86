package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/fieldops-backend/internal/web"
)

// DefaultUrgentLimit caps /tasks/urgent when no limit is given.
const DefaultUrgentLimit = 5

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/tasks", func(r chi.Router) {
		r.Get("/", h.listTasks) // ?store_id=... or ?page&limit&status
		r.Post("/", h.createTask)
		r.Get("/urgent", h.listUrgent)
		r.Get("/{id}", h.getTask)
		r.Put("/{id}", h.updateTask)
		r.Delete("/{id}", h.deleteTask)
		r.Patch("/{id}/status", h.setStatus)
	})
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if raw := q.Get("store_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			web.Error(w, web.ErrInvalidID)
			return
		}
		tasks, err := h.service.ListByStore(r.Context(), id.String())
		if err != nil {
			web.Error(w, err)
			return
		}
		respondList(w, tasks)
		return
	}
	if q.Has("page") || q.Has("limit") || q.Has("status") {
		page, err := h.service.ListPaginated(r.Context(),
			web.IntQuery(r, "page", 1), web.IntQuery(r, "limit", 0), Status(q.Get("status")))
		if err != nil {
			web.Error(w, err)
			return
		}
		web.Respond(w, http.StatusOK, page)
		return
	}
	tasks, err := h.service.List(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	respondList(w, tasks)
}

func (h *Handler) listUrgent(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListUrgent(r.Context(), web.IntQuery(r, "limit", DefaultUrgentLimit))
	if err != nil {
		web.Error(w, err)
		return
	}
	respondList(w, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.service.Create(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, t)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, t)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req TaskRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, t)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req statusRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, t)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
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

func respondList(w http.ResponseWriter, tasks []*Task) {
	if tasks == nil {
		tasks = []*Task{}
	}
	web.Respond(w, http.StatusOK, tasks)
}
