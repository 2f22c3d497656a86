package store

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/fieldops-backend/internal/web"
)

// Handler exposes store HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/stores", func(r chi.Router) {
		r.Get("/", h.listStores) // ?page&limit&zone&status for a paginated listing
		r.Post("/", h.createStore)
		r.Get("/urgent", h.listUrgent)
		r.Get("/{id}", h.getStore)
		r.Put("/{id}", h.updateStore)
		r.Delete("/{id}", h.deleteStore)
		r.Patch("/{id}/pin", h.pinNote)
	})
}

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("limit") && !q.Has("zone") && !q.Has("status") {
		summaries, err := h.service.GetStoreSummaries(r.Context())
		if err != nil {
			web.Error(w, err)
			return
		}
		web.Respond(w, http.StatusOK, summaries)
		return
	}
	page, err := h.service.ListStores(r.Context(),
		web.IntQuery(r, "page", 1), web.IntQuery(r, "limit", 0),
		q.Get("zone"), Status(q.Get("status")))
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, page)
}

func (h *Handler) listUrgent(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListUrgent(r.Context())
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, stores)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var req StoreRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	store, err := h.service.CreateStore(r.Context(), req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusCreated, store)
}

func (h *Handler) getStore(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	store, err := h.service.GetStore(r.Context(), id)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, store)
}

func (h *Handler) updateStore(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var req StoreRequest
	if err := web.Decode(r, &req); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	store, err := h.service.UpdateStore(r.Context(), id, req)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, store)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	if err := h.service.DeleteStore(r.Context(), id); err != nil {
		web.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pinNote(w http.ResponseWriter, r *http.Request) {
	id, err := web.PathID(r, "id")
	if err != nil {
		web.Error(w, err)
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	if err := web.Decode(r, &body); err != nil {
		web.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	store, err := h.service.PinNote(r.Context(), id, body.Note)
	if err != nil {
		web.Error(w, err)
		return
	}
	web.Respond(w, http.StatusOK, store)
}
