package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommiddleware "github.com/mmeshcher/pitchrent/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса аренды полей.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.Metrics)
	r.Use(custommiddleware.GzipMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/pitches", h.SearchPitches)
		r.Get("/pitches/{id}", h.GetPitch)
		r.Get("/pitches/{id}/comments", h.ListComments)
		r.Get("/vouchers", h.ListVouchers)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.With(h.bookingLimiter.Middleware).Post("/pitches/{id}/orders", h.CreateBooking)
			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)
			r.Post("/orders/{id}/cancel", h.CancelOrder)

			r.Post("/pitches/{id}/comments", h.CreateComment)
			r.Put("/comments/{id}", h.UpdateComment)
			r.Delete("/comments/{id}", h.DeleteComment)
			r.Post("/comments/{id}/replies", h.CreateReply)

			r.Post("/pitches/{id}/favorite", h.ToggleFavorite)
			r.Get("/favorites", h.ListFavorites)

			r.Route("/admin", func(r chi.Router) {
				r.Use(custommiddleware.RequireSuperuser)

				r.Post("/pitches", h.CreatePitch)
				r.Put("/pitches/{id}", h.UpdatePitch)
				r.Delete("/pitches/{id}", h.DeletePitch)
				r.Post("/pitches/{id}/images", h.AddPitchImage)

				r.Post("/vouchers", h.CreateVoucher)
				r.Patch("/orders/{id}/status", h.ChangeOrderStatus)
				r.Post("/comments/delete", h.DeleteComments)

				r.Get("/statistics/revenue", h.MonthlyRevenue)
				r.Get("/statistics/pitches/{id}", h.PitchDailyRevenue)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
