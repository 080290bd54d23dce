package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumiere-jewels/storefront/models"
)

var (
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", models.ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("username already taken: %w", models.ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", models.ErrUnauthorized)
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	Verify(token string) (*Claims, error)
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

// Register creates a customer account. A duplicate email or username fails
// with a conflict and creates nothing.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	user, err := s.create(ctx, req.Username, req.Email, req.Password, false)
	if err != nil {
		return nil, err
	}
	return s.authenticated(user)
}

// CreateAdmin registers a user with admin rights.
func (s *Service) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, error) {
	req := RegisterRequest{Username: username, Email: email, Password: password}
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	return s.create(ctx, req.Username, req.Email, req.Password, true)
}

func (s *Service) create(ctx context.Context, username, email, password string, admin bool) (*models.User, error) {
	if err := s.ensureFree(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: username,
		Email:    models.NormalizeEmail(email),
		Password: hash,
		IsAdmin:  admin,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, s.takenBy(ctx, username, email, err)
		}
		return nil, err
	}
	return user, nil
}

// takenBy names the field behind a unique violation that slipped past
// ensureFree because another registration won the race.
func (s *Service) takenBy(ctx context.Context, username, email string, conflict error) error {
	if err := s.ensureFree(ctx, username, email); err != nil {
		return err
	}
	return conflict
}

func (s *Service) ensureFree(ctx context.Context, username, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	_, err = s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, models.ErrNotFound):
		return err
	}
	return nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(user.Password, req.Password); err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.authenticated(user)
}

// CurrentUser resolves a bearer token to the user it was issued for.
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("token user no longer exists: %w", models.ErrUnauthorized)
	}
	return user, err
}

func (s *Service) authenticated(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}
