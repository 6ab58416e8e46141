package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/todo-otp-backend/internal/metrics"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.healthCheckHandler)
	r.Get("/health", s.healthHandler)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	r.Route("/todos", func(r chi.Router) {
		r.With(s.requireAuth).Get("/", s.getTodosHandler)
		r.With(s.optionalAuth).Post("/", s.createTodoHandler)
		r.Get("/{id}", s.getTodoHandler)
		r.Patch("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/sign-up", s.signUpHandler)
		r.Post("/log-in", s.logInHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/email/otp", s.createOTPHandler)
			r.Post("/email/otp/verify", s.verifyOTPHandler)
		})
	})

	return r
}

func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"ping": "pong"})
}

// healthHandler reports the database and cache status. Either one down gives 503.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := make(map[string]map[string]string, 2)

	if s.db != nil {
		body["database"] = s.db.Health(r.Context())
		if body["database"]["status"] == "down" {
			status = http.StatusServiceUnavailable
		}
	}
	if s.cache != nil {
		body["cache"] = s.cache.Health(r.Context())
		if body["cache"]["status"] == "down" {
			status = http.StatusServiceUnavailable
		}
	}

	respondWithJSON(w, status, body)
}
