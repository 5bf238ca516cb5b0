package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	stderrors "errors"

	"github.com/nkravets/eshop/internal/infrastructure/auth"
	"github.com/nkravets/eshop/internal/infrastructure/redis"
	"github.com/nkravets/eshop/internal/models"
	"github.com/nkravets/eshop/internal/repository"
	pkgerrors "github.com/nkravets/eshop/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, user *models.User, password string) error
	Login(ctx context.Context, email, password string) (token string, err error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UserCount(ctx context.Context) (int64, error)
}

type userService struct {
	users       repository.UserRepository
	codec       *auth.Codec
	redisClient redis.RedisClient
	tokenTTL    time.Duration
}

func NewUserService(users repository.UserRepository, codec *auth.Codec, redisClient redis.RedisClient, tokenTTL time.Duration) *userService {
	return &userService{users: users, codec: codec, redisClient: redisClient, tokenTTL: tokenTTL}
}

func (s *userService) Register(ctx context.Context, user *models.User, password string) error {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if user == nil {
		return pkgerrors.ErrNilUser
	}
	if user.Email == "" || password == "" {
		span.SetStatus(codes.Error, "empty email or password")
		return pkgerrors.ErrInvalidInput
	}

	existing, err := s.users.GetByEmail(ctx, user.Email)
	if existing != nil {
		span.SetStatus(codes.Error, "email already registered")
		slog.Warn("email already registered", "email", user.Email, "existing_id", existing.ID)
		return pkgerrors.ErrEmailExists
	}
	if err != nil && !stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "user check failed")
		slog.Error("failed to check user existence", "email", user.Email, "error", err)
		return fmt.Errorf("%w: failed to check user existence", pkgerrors.ErrInternal)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "password hashing failed")
		slog.Error("failed to hash password", "email", user.Email, "error", err)
		return fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		if stderrors.Is(err, pkgerrors.ErrEmailExists) {
			return err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "user creation failed")
		slog.Error("failed to create user", "email", user.Email, "error", err)
		return fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	tracer := otel.Tracer("eshop")
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		slog.Error("failed to login", "email", email, "error", err)
		span.SetStatus(codes.Error, "user lookup failed")
		return "", pkgerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Error("invalid password", "email", email)
		span.SetStatus(codes.Error, "invalid password")
		return "", pkgerrors.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(strconv.FormatInt(user.ID, 10), user.IsAdmin)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to issue token", "user_id", user.ID, "error", err)
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	// Session record only; the gate decides from claims alone.
	if err := s.redisClient.Set(ctx, fmt.Sprintf("user:%d:token", user.ID), token, s.tokenTTL); err != nil {
		slog.Error("failed to record session", "user_id", user.ID, "error", err)
	}

	slog.Info("user logged in", "email", email, "user_id", user.ID)
	return token, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.redisClient.Del(ctx, fmt.Sprintf("user:%d:token", id)); err != nil {
		slog.Error("failed to drop session record", "user_id", id, "error", err)
	}
	return nil
}

func (s *userService) UserCount(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
