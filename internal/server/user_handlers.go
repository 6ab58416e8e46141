package server

import (
	"errors"
	"net/http"

	"github.com/Tomlord1122/todo-otp-backend/internal/service"
)

func (s *Server) signUpHandler(w http.ResponseWriter, r *http.Request) {
	var req service.SignUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.SignUp(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignUp):
			respondWithError(w, http.StatusBadRequest, "Username And Password Required")
		case errors.Is(err, service.ErrPasswordTooLong):
			respondWithError(w, http.StatusBadRequest, "Password Too Long")
		case errors.Is(err, service.ErrUsernameTaken):
			respondWithError(w, http.StatusConflict, "Username Already Exists")
		default:
			respondInternalError(w, r, "sign up", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) logInHandler(w http.ResponseWriter, r *http.Request) {
	var req service.LogInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := s.userService.LogIn(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User Not Found")
		case errors.Is(err, service.ErrInvalidPassword):
			respondWithError(w, http.StatusUnauthorized, "Not Authorized")
		default:
			respondInternalError(w, r, "log in", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}

func (s *Server) createOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	otp, err := s.userService.CreateOTP(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			respondWithError(w, http.StatusBadRequest, "Invalid Email")
			return
		}
		respondInternalError(w, r, "create otp", err)
		return
	}

	respondWithJSON(w, http.StatusOK, otp)
}

func (s *Server) verifyOTPHandler(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	username, _ := usernameFromContext(r.Context())
	user, err := s.userService.VerifyOTP(r.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOTPNotFound), errors.Is(err, service.ErrOTPMismatch):
			respondWithError(w, http.StatusBadRequest, "Bad Request")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User Not Found")
		default:
			respondInternalError(w, r, "verify otp", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
