package handler

import "github.com/go-chi/chi/v5"

// RegisterRoutes регистрирует JSON API. Одни и те же маршруты монтируются в корень и под /api.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)

	r.Post("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)

	r.Get("/token", h.CheckToken)
	r.Delete("/token", h.Logout)

	r.Post("/fetchlinkusers", h.FetchLinkUsers)
	r.Post("/fetchsenderdata", h.FetchSenderData)
}
