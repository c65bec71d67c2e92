package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{c.corsOriginOrAny()},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: c.corsOriginOrAny() != "*",
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Get("/ws", c.serveWS)
		r.Route("/rooms/{room-id}", func(r chi.Router) {
			r.Get("/state", c.getRoomState)
			r.Get("/videos", c.getRoomVideos)
			r.Post("/videos", c.addVideo)
		})
	})

	return r
}

func (c controller) corsOriginOrAny() string {
	if c.corsOrigin == "" {
		return "*"
	}

	return c.corsOrigin
}
