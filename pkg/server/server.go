// Package server exposes generated content over a read-only JSON API.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/controlplane-com/content-seeder/pkg/content/badges"
	"github.com/controlplane-com/content-seeder/pkg/content/lessons"
	"github.com/gorilla/mux"
)

// LessonBase is the href prefix every lesson lives under.
const LessonBase = "/education/lessons"

// Server holds the content served by the API. The setters may be called
// while requests are in flight.
type Server struct {
	mu      sync.RWMutex
	badges  *badges.Catalog
	courses map[string]*lessons.Course
	topics  *lessons.TopicCatalog
}

// New creates an empty server.
func New() *Server {
	return &Server{courses: make(map[string]*lessons.Course)}
}

// SetBadges replaces the badge catalog.
func (s *Server) SetBadges(c *badges.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges = c
}

// SetCourse adds or replaces a course, keyed by its course ID.
func (s *Server) SetCourse(c *lessons.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.CourseID] = c
}

// SetTopics replaces the topic catalog.
func (s *Server) SetTopics(c *lessons.TopicCatalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = c
}

// Handler builds the router. A non-empty token enables bearer auth on
// everything except the health endpoint.
func (s *Server) Handler(token string) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	if token != "" {
		api.Use(authMiddleware(token))
	}

	api.HandleFunc("/health", s.Health).Methods("GET")
	api.HandleFunc("/badges", s.Badges).Methods("GET")
	api.HandleFunc("/courses/{courseId}", s.Course).Methods("GET")
	api.HandleFunc("/lessons/{slug:.+}", s.Lesson).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusNotFound, "not found")
	})

	return r
}

// authMiddleware validates the bearer token for protected endpoints
func authMiddleware(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/health" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				errorResponse(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			// Expect "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				errorResponse(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			if parts[1] != token {
				errorResponse(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Response helpers
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := lessons.WriteJSON(w, data); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// Health reports that the server is up.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Badges returns the badge catalog, optionally filtered by ?category=.
func (s *Server) Badges(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	catalog := s.badges
	s.mu.RUnlock()

	if catalog == nil {
		errorResponse(w, http.StatusServiceUnavailable, "badge catalog not loaded")
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		jsonResponse(w, http.StatusOK, catalog)
		return
	}

	filtered := catalog.Filter(category)
	jsonResponse(w, http.StatusOK, badges.Catalog{TotalBadges: len(filtered), Badges: filtered})
}

// Course returns a course catalog by ID.
func (s *Server) Course(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["courseId"]

	s.mu.RLock()
	course, ok := s.courses[id]
	s.mu.RUnlock()

	if !ok {
		errorResponse(w, http.StatusNotFound, "course not found: "+id)
		return
	}

	jsonResponse(w, http.StatusOK, course)
}

// Lesson returns the lesson whose href matches the request path below
// /api/lessons/. Course catalogs are searched in course ID order, then
// the topic catalog.
func (s *Server) Lesson(w http.ResponseWriter, r *http.Request) {
	href, ok := lessons.LessonPath(LessonBase, strings.Split(mux.Vars(r)["slug"], "/"))
	if !ok {
		errorResponse(w, http.StatusNotFound, "not found")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.courses))
	for id := range s.courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if lesson, found := s.courses[id].Lookup(href); found {
			jsonResponse(w, http.StatusOK, lesson)
			return
		}
	}

	if s.topics != nil {
		if raw, found := s.topics.Lookup(href); found {
			jsonResponse(w, http.StatusOK, json.RawMessage(raw))
			return
		}
	}

	errorResponse(w, http.StatusNotFound, "lesson not found: "+href)
}
