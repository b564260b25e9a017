// Package server exposes the read-only HTTP feed surface.
package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
	"github.com/gabeln-jetzt/gabeln/internal/feed"
)

// Server serves the HTML fork feed and its Atom rendition. It is a pure
// read-only view over the event store.
type Server struct {
	store  domain.EventStore
	logger zerolog.Logger

	indexTmpl    *template.Template
	aboutTmpl    *template.Template
	notFoundTmpl *template.Template
}

type page struct {
	Title  string
	Events []eventView
}

type eventView struct {
	Actor        string
	AvatarURL    string
	Repo         string
	ForkFullName string
	ForkURL      string
	Age          string
}

// New creates a new feed server
func New(store domain.EventStore, logger zerolog.Logger) *Server {
	index, about, notFound := parseTemplates()

	return &Server{
		store:        store,
		logger:       logger,
		indexTmpl:    index,
		aboutTmpl:    about,
		notFoundTmpl: notFound,
	}
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/about", s.handleAbout)
	r.Get("/atom.xml", s.handleFeed)
	r.NotFound(s.handleNotFound)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	events := s.store.Snapshot()

	// Newest first.
	views := make([]eventView, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		views = append(views, eventView{
			Actor:        event.Actor,
			AvatarURL:    event.ActorAvatarURL,
			Repo:         event.Repo,
			ForkFullName: event.ForkFullName,
			ForkURL:      event.ForkURL,
			Age:          humanize.Time(event.CreatedAt),
		})
	}

	s.render(w, s.indexTmpl, http.StatusOK, page{Title: "gabeln.jetzt", Events: views})
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	s.render(w, s.aboutTmpl, http.StatusOK, page{Title: "About"})
}

func (s *Server) handleFeed(w http.ResponseWriter, _ *http.Request) {
	xml, err := feed.Build(s.store.Snapshot())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build atom feed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	_, _ = w.Write([]byte(xml))
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.render(w, s.notFoundTmpl, http.StatusNotFound, page{Title: "Not found"})
}

func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, status int, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render page")
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
