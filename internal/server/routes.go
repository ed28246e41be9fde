package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"flea_market/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/market", func(r chi.Router) {
				r.Post("/search", handler(s.postV1Search))
				r.Get("/prices/{tpl}", handler(s.getV1Prices))

				r.Route("/offers", func(r chi.Router) {
					r.Post("/", handler(s.postV1Offers))
					r.Post("/{id}/buy", handler(s.postV1Buy))
					r.Post("/{id}/extend", handler(s.postV1Extend))
					r.Delete("/{id}", handler(s.deleteV1Offer))
				})

				r.Post("/traders/{id}/refresh", handler(s.postV1TraderRefresh))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
