package auth

import (
	"context"
	"errors"
	"fmt"

	apperrors "vending/internal/errors"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	errUsernameUsed   = apperrors.ErrUsernameTaken.WithMessage("username is already used!")
	errUnknownLogin   = apperrors.ErrUserNotFound.WithMessage("user not found!")
	errInvalidRefresh = apperrors.ErrInvalidInput.WithMessage("Invalid refresh token!")
)

// TokenPair is returned by every successful authentication.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Config struct {
	Tokens     utils.TokenConfig
	BcryptCost int
}

type Service interface {
	Signup(ctx context.Context, input models.CreateUserInput) (*TokenPair, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type service struct {
	users  repositories.UserRepository
	config Config
}

func NewService(users repositories.UserRepository, config Config) Service {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &service{
		users:  users,
		config: config,
	}
}

func (s *service) Signup(ctx context.Context, input models.CreateUserInput) (*TokenPair, error) {
	if input.Username == "" || input.Password == "" || !input.Role.Valid() {
		return nil, apperrors.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: input.Username,
		Password: string(hash),
		Role:     input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUsernameTaken) {
			return nil, errUsernameUsed.Wrap(err)
		}
		return nil, apperrors.FromStorage(err)
	}

	return s.issue(user.Identity())
}

func (s *service) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errUnknownLogin.Wrap(err)
		}
		return nil, apperrors.FromStorage(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(user.Identity())
}

// Refresh exchanges a valid refresh token for a new pair. The role is read
// back from storage rather than trusted from the token.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	_, claims, err := utils.ParseToken(refreshToken, s.config.Tokens.RefreshSecret)
	if err != nil {
		return nil, errInvalidRefresh.Wrap(err)
	}
	identity, err := claims.Identity()
	if err != nil {
		return nil, errInvalidRefresh.Wrap(err)
	}

	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, errInvalidRefresh.Wrap(err)
		}
		return nil, apperrors.FromStorage(err)
	}

	return s.issue(user.Identity())
}

func (s *service) issue(identity models.Identity) (*TokenPair, error) {
	access, refresh, err := utils.GenerateTokens(s.config.Tokens, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
