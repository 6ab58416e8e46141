package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-otp-backend/internal/cache"
	"github.com/Tomlord1122/todo-otp-backend/internal/domain"
	"github.com/Tomlord1122/todo-otp-backend/internal/metrics"
	"github.com/Tomlord1122/todo-otp-backend/internal/service"
)

// memTodoRepo and memUserRepo stand in for the gorm repositories.
type memTodoRepo struct {
	mu     sync.Mutex
	nextID uint
	todos  map[uint]domain.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: make(map[uint]domain.Todo)}
}

func (r *memTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	todo.ID = r.nextID
	r.todos[todo.ID] = *todo
	return nil
}

func (r *memTodoRepo) FindByID(_ context.Context, id uint) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	todo, ok := r.todos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &todo, nil
}

func (r *memTodoRepo) FindByUserID(_ context.Context, userID uint) ([]domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Todo
	for id := uint(1); id <= r.nextID; id++ {
		todo, ok := r.todos[id]
		if ok && todo.UserID != nil && *todo.UserID == userID {
			out = append(out, todo)
		}
	}
	return out, nil
}

func (r *memTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos[todo.ID] = *todo
	return nil
}

func (r *memTodoRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.todos, id)
	return nil
}

type memUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	user.ID = r.nextID
	r.users[user.Username] = *user
	return nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

type testEnv struct {
	handler  http.Handler
	todos    *memTodoRepo
	users    *memUserRepo
	redis    *miniredis.Miniredis
	tokens   *service.TokenManager
	registry *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	cacheSvc := cache.New(cache.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cacheSvc.Close() })

	todos := newMemTodoRepo()
	users := newMemUserRepo()
	tokens := service.NewTokenManager("test-secret", 24*time.Hour)
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	s := newServer(Dependencies{
		TodoService: service.NewTodoService(todos, users),
		UserService: service.NewUserService(users, cache.NewRedisOTPStore(cacheSvc.Client()), tokens, 3*time.Minute, collector),
		Cache:       cacheSvc,
		Metrics:     collector,
		Gatherer:    reg,
	})

	return &testEnv{
		handler:  s.RegisterRoutes(),
		todos:    todos,
		users:    users,
		redis:    mr,
		tokens:   tokens,
		registry: reg,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// signUpAndLogIn registers username and returns an access token for it.
func (e *testEnv) signUpAndLogIn(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/users/sign-up", map[string]string{"username": username, "password": "password"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/users/log-in", map[string]string{"username": username, "password": "password"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp service.JWTResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
