package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/todo-otp-backend/internal/service"
)

func (s *Server) getTodosHandler(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFromContext(r.Context())
	order := r.URL.Query().Get("order")

	todos, err := s.todoService.ListTodos(r.Context(), username, order)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User Not Found")
			return
		}
		respondInternalError(w, r, "list todos", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.GetTodoByID(r.Context(), id)
	if err != nil {
		s.respondTodoError(w, r, "get todo", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	owner, _ := usernameFromContext(r.Context())
	todo, err := s.todoService.CreateTodo(r.Context(), req, owner)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentsTooLong):
			respondWithError(w, http.StatusBadRequest, "Contents Too Long")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User Not Found")
		default:
			respondInternalError(w, r, "create todo", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	var req service.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todoService.UpdateTodo(r.Context(), id, req)
	if err != nil {
		s.respondTodoError(w, r, "update todo", err)
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	if err := s.todoService.DeleteTodo(r.Context(), id); err != nil {
		s.respondTodoError(w, r, "delete todo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondTodoError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTodoNotFound):
		respondWithError(w, http.StatusNotFound, "Todo Not Found")
	case errors.Is(err, service.ErrIsDoneRequired):
		respondWithError(w, http.StatusBadRequest, "is_done is required")
	default:
		respondInternalError(w, r, op, err)
	}
}

func todoIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return 0, false
	}
	return uint(id), true
}
