package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the organisation routes. addMember serves POST /{orgId}/users and is
// owned by the membership feature.
func Routes(h *Handler, addMember http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{orgId}", h.ServeOrganisation)
	if addMember != nil {
		r.Post("/{orgId}/users", addMember)
	}
	return r
}
