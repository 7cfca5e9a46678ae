package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the cart API. The same router is served by main
// and exercised directly by the handler tests.
func NewRouter(h *CartHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(HeaderAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.EmptyCart)
		r.Get("/count", h.CountItems)
		r.Post("/items", h.AddItem)
		r.Put("/items/{item_id}", h.UpdateQuantity)
		r.Delete("/items/{item_id}", h.DeleteItem)
	})

	return r
}
