package delivery

import (
	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/wellness_ai/internal/session"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *ChatHandler, store session.Store, log *logger.ZapLogger) {
	r.With(httputil.RecoverMiddleware).
		Get("/ping", h.Ping)

	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			SessionMiddleware(store, log),
		)

		pr.Get("/", h.Index)
		pr.Post("/ask", h.Ask)
		pr.Post("/clear", h.Clear)
		pr.Get("/speech/latest", h.LatestSpeech)
		pr.Get("/history", h.History)
	})
}
