package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aureliajewels/aurelia-backend/pkg/auth"
	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/db"
	"github.com/aureliajewels/aurelia-backend/pkg/db/models"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	pkgerrors "github.com/aureliajewels/aurelia-backend/pkg/errors"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	"github.com/aureliajewels/aurelia-backend/pkg/security"
)

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    *string
	Password string
}

// LoginInput is a credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// UserDTO is the public account shape.
type UserDTO struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Phone *string        `json:"phone,omitempty"`
	Role  enums.UserRole `json:"role"`
}

// Session is a minted access token plus the account it belongs to.
type Session struct {
	AccessToken string  `json:"access_token"`
	ExpiresAt   int64   `json:"expires_at"`
	User        UserDTO `json:"user"`
}

// Service handles registration and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	Login(ctx context.Context, input LoginInput) (*Session, error)
}

type service struct {
	users    userStore
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(users userStore, jwt config.JWTConfig, password config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if jwt.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{users: users, jwt: jwt, password: password, logg: logg, now: time.Now}, nil
}

const minPasswordLength = 8

// Register creates an account with the customer role and returns a live
// session. Duplicate emails surface as a conflict without leaking whether
// the account exists beyond that.
func (s *service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        normalizePhone(input.Phone),
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating account")
	}
	return s.mintSession(created)
}

// Login checks credentials and mints a session. Unknown email and wrong
// password produce the same error.
func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, invalidCredentials()
	}
	return s.mintSession(user)
}

func (s *service) mintSession(user *models.User) (*Session, error) {
	now := s.now().UTC()
	token, err := auth.MintAccessToken(s.jwt, now, auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return &Session{
		AccessToken: token,
		ExpiresAt:   now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute).Unix(),
		User: UserDTO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
			Role:  user.Role,
		},
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") || strings.ContainsAny(email, " \t") {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	return nil
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
