package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tomlord1122/todo-otp-backend/internal/cache"
	"github.com/Tomlord1122/todo-otp-backend/internal/database"
	"github.com/Tomlord1122/todo-otp-backend/internal/metrics"
	"github.com/Tomlord1122/todo-otp-backend/internal/service"
)

// Dependencies are the collaborators the handlers call into.
// Metrics, Gatherer and Logger are optional.
type Dependencies struct {
	TodoService    service.TodoService
	UserService    service.UserService
	DB             database.Service
	Cache          cache.Service
	Metrics        metrics.Recorder
	Gatherer       prometheus.Gatherer
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Server struct {
	todoService    service.TodoService
	userService    service.UserService
	db             database.Service
	cache          cache.Service
	metrics        metrics.Recorder
	gatherer       prometheus.Gatherer
	logger         *slog.Logger
	allowedOrigins []string
}

func newServer(deps Dependencies) *Server {
	s := &Server{
		todoService:    deps.TodoService,
		userService:    deps.UserService,
		db:             deps.DB,
		cache:          deps.Cache,
		metrics:        deps.Metrics,
		gatherer:       deps.Gatherer,
		logger:         deps.Logger,
		allowedOrigins: deps.AllowedOrigins,
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if len(s.allowedOrigins) == 0 {
		s.allowedOrigins = []string{"https://*", "http://*"}
	}
	return s
}

// NewServer builds the http.Server listening on port with every route registered.
func NewServer(port int, deps Dependencies) *http.Server {
	appServer := newServer(deps)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
