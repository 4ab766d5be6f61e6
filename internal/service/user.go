package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user,omitempty"`
}

type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error)
	AdminLogin(ctx context.Context, req dto.LoginRequest) (*AuthResult, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	admin    config.Auth
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	admin config.Auth,
	logger *zap.Logger,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		admin:    admin,
		validate: newValidator(),
		logger:   logger,
	}
}

func errMissingSecret() error {
	return apperr.Internal("Server misconfigured", auth.ErrMissingSecret)
}

func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*AuthResult, error) {
	if !s.tokens.Configured() {
		return nil, errMissingSecret()
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, apperr.Validation("Name, email and password are required")
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperr.Conflict("User already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("Failed to look up user", err)
	}

	if err := s.validate.Var(email, "email"); err != nil {
		return nil, apperr.Validation("Please enter a valid email")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperr.Validation("Please enter a strong password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal("Failed to create user", err)
	}

	token, err := s.tokens.IssueUser(user.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to issue token", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &AuthResult{Token: token}, nil
}

func (s *userServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error) {
	if !s.tokens.Configured() {
		return nil, errMissingSecret()
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	invalid := apperr.Validation("Invalid email or password")

	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, apperr.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	token, err := s.tokens.IssueUser(user.ID)
	if err != nil {
		return nil, apperr.Internal("Failed to issue token", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

func (s *userServiceImpl) AdminLogin(ctx context.Context, req dto.LoginRequest) (*AuthResult, error) {
	if !s.tokens.Configured() {
		return nil, errMissingSecret()
	}

	invalid := apperr.Unauthenticated("Invalid admin credentials")
	if s.admin.AdminEmail == "" || s.admin.AdminPassword == "" {
		s.logger.Warn("admin login attempted without configured admin credentials")
		return nil, invalid
	}

	wantEmail := strings.ToLower(strings.TrimSpace(s.admin.AdminEmail))
	gotEmail := strings.ToLower(strings.TrimSpace(req.Email))
	emailOK := subtle.ConstantTimeCompare([]byte(gotEmail), []byte(wantEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.AdminPassword)) == 1
	if !emailOK || !passOK {
		return nil, invalid
	}

	token, err := s.tokens.IssueAdmin(wantEmail)
	if err != nil {
		return nil, apperr.Internal("Failed to issue token", err)
	}

	return &AuthResult{Token: token}, nil
}
