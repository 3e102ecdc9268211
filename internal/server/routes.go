package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(s.corsHandler())
	}

	r.Get("/", s.handleRoot)
	if s.ui != nil {
		r.Get("/app", spaRedirect)
		r.Get("/app/*", spaHandler(s.ui))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", s.handleListFriends)
			r.Post("/", s.handleCreateFriend)
			r.Post("/import", s.handleImportFriends)
			r.Get("/export.vcf", s.handleExportFriends)

			r.Route("/{friendID}", func(r chi.Router) {
				r.Get("/", s.handleGetFriend)
				r.Put("/", s.handleUpdateFriend)
				r.Delete("/", s.handleDeleteFriend)

				r.Get("/events", s.handleListEvents)
				r.Post("/events", s.handleCreateEvent)
				r.Get("/notes", s.handleListNotes)
				r.Post("/notes", s.handleCreateNote)
				r.Get("/reciprocity", s.handleListReciprocity)
				r.Post("/reciprocity", s.handleCreateReciprocity)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/upcoming", s.handleUpcomingEvents)
			r.Get("/calendar.ics", s.handleCalendarFeed)
			r.Put("/{eventID}", s.handleUpdateEvent)
			r.Delete("/{eventID}", s.handleDeleteEvent)
		})

		r.Put("/notes/{noteID}", s.handleUpdateNote)
		r.Delete("/notes/{noteID}", s.handleDeleteNote)

		r.Get("/reciprocity/summary", s.handleReciprocitySummary)

		r.With(s.chatLimit).Post("/chat", s.handleChat)
	})

	s.router = r
}
