package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-otp-backend/internal/cache"
	"github.com/Tomlord1122/todo-otp-backend/internal/domain"
	"github.com/Tomlord1122/todo-otp-backend/internal/metrics"
	"github.com/Tomlord1122/todo-otp-backend/internal/repository"
)

// SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   int    `json:"otp"`
}

// UserResponse carries the public fields of a user. The password is never included.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type JWTResponse struct {
	AccessToken string `json:"access_token"`
}

type OTPResponse struct {
	OTP int `json:"otp"`
}

// UserService covers sign-up, log-in, token checks and the email OTP flow.
type UserService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*UserResponse, error)

	// LogIn returns ErrUserNotFound or ErrInvalidPassword on failure.
	LogIn(ctx context.Context, req LogInRequest) (*JWTResponse, error)

	// Authenticate decodes an access token and returns its username.
	Authenticate(token string) (string, error)

	// CreateOTP stores a fresh 4-digit code for the email and returns it.
	CreateOTP(ctx context.Context, req CreateOTPRequest) (*OTPResponse, error)

	// VerifyOTP compares the stored code and, on a match, returns the acting user.
	// The code is left in the cache until it expires.
	VerifyOTP(ctx context.Context, username string, req VerifyOTPRequest) (*UserResponse, error)
}

type userService struct {
	users   repository.UserRepository
	otps    cache.OTPStore
	tokens  *TokenManager
	otpTTL  time.Duration
	metrics metrics.Recorder
}

func NewUserService(
	users repository.UserRepository,
	otps cache.OTPStore,
	tokens *TokenManager,
	otpTTL time.Duration,
	rec metrics.Recorder,
) UserService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &userService{
		users:   users,
		otps:    otps,
		tokens:  tokens,
		otpTTL:  otpTTL,
		metrics: rec,
	}
}

func (s *userService) SignUp(ctx context.Context, req SignUpRequest) (*UserResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidSignUp
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(req.Username, hashed)
	if err := s.users.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user signed up", slog.Uint64("user_id", uint64(user.ID)), slog.String("username", user.Username))

	return &UserResponse{ID: user.ID, Username: user.Username}, nil
}

func (s *userService) LogIn(ctx context.Context, req LogInRequest) (*JWTResponse, error) {
	user, err := s.findUser(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.metrics.RecordLogin(metrics.LoginNotFound)
		}
		return nil, err
	}

	if !VerifyPassword(req.Password, user.Password) {
		s.metrics.RecordLogin(metrics.LoginInvalidPassword)
		return nil, ErrInvalidPassword
	}

	token, err := s.tokens.CreateJWT(user.Username)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(metrics.LoginSuccess)
	return &JWTResponse{AccessToken: token}, nil
}

func (s *userService) Authenticate(token string) (string, error) {
	return s.tokens.DecodeJWT(token)
}

func (s *userService) CreateOTP(ctx context.Context, req CreateOTPRequest) (*OTPResponse, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	code, err := GenerateOTP()
	if err != nil {
		return nil, err
	}
	if err := s.otps.Save(ctx, req.Email, code, s.otpTTL); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}
	s.metrics.RecordOTPCreated()

	// TODO: send the code to req.Email once a mail transport is configured;
	// until then the code is only returned in the response.
	n, _ := strconv.Atoi(code)
	return &OTPResponse{OTP: n}, nil
}

func (s *userService) VerifyOTP(ctx context.Context, username string, req VerifyOTPRequest) (*UserResponse, error) {
	stored, err := s.otps.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			s.metrics.RecordOTPVerification(metrics.OTPMissing)
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("read otp: %w", err)
	}

	if code, err := strconv.Atoi(stored); err != nil || code != req.OTP {
		s.metrics.RecordOTPVerification(metrics.OTPMismatch)
		return nil, ErrOTPMismatch
	}
	s.metrics.RecordOTPVerification(metrics.OTPSuccess)

	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return &UserResponse{ID: user.ID, Username: user.Username}, nil
}

func (s *userService) findUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
