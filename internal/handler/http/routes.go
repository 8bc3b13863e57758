// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/MKhiriev/go-quote-keeper/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Get("/api/version", h.getVersion)
	if h.gatherer != nil {
		router.Handle("/metrics", metrics.Handler(h.gatherer))
	}

	router.Route("/api/quotes/{quoteID}", func(r chi.Router) {
		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Get("/meta", h.getMeta)
			r.Get("/meta/stream", h.streamMeta)
			r.Get("/comments", h.listComments)
		})

		// routes with authorization
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Post("/like", h.toggleLike)
			r.Post("/save", h.toggleSave)
			r.Post("/comments", h.addComment)
		})
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
