package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("google email not verified")
	ErrGoogleDisabled     = errors.New("google sign-in not configured")
	ErrGoogleAuth         = errors.New("google authentication failed")
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 72 // límite de bcrypt, en bytes
	passwordCost      = bcrypt.DefaultCost
)

// IdentityVerifier valida un id token de un proveedor externo.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (Identity, error)
}

// TokenIssuer emite el token de sesión.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type Service struct {
	repo     Repository
	tokens   TokenIssuer
	identity IdentityVerifier // nil => Google deshabilitado
	now      func() time.Time
}

func NewService(repo Repository, tokens TokenIssuer, identity IdentityVerifier) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		identity: identity,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	User  User
	Token string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || !validEmail(email) || len(in.Password) < MinPasswordLength || len(in.Password) > MaxPasswordLength {
		return AuthResult{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return AuthResult{}, err
	}
	return s.result(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	// Cuentas solo-Google no tienen password local.
	if u.PasswordHash == "" {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.result(u)
}

// GoogleSignIn busca la cuenta por google id y si no, por email (la vincula);
// si no existe la crea. Siempre refresca nombre y avatar.
func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (AuthResult, error) {
	if s.identity == nil {
		return AuthResult{}, ErrGoogleDisabled
	}
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return AuthResult{}, ErrInvalidInput
	}

	id, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrGoogleAuth, err)
	}
	if !id.EmailVerified {
		return AuthResult{}, ErrEmailNotVerified
	}

	email := normalizeEmail(id.Email)
	if !validEmail(email) || strings.TrimSpace(id.Subject) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	now := s.now()
	u, err := s.repo.GetByGoogleID(ctx, id.Subject)
	if errors.Is(err, ErrNotFound) {
		u, err = s.repo.GetByEmail(ctx, email)
	}
	switch {
	case err == nil:
		u.GoogleID = id.Subject
		if name := strings.TrimSpace(id.Name); name != "" {
			u.Name = name
		}
		u.AvatarURL = strings.TrimSpace(id.Picture)
		u.UpdatedAt = now
		if err := s.repo.Update(ctx, u); err != nil {
			return AuthResult{}, err
		}
	case errors.Is(err, ErrNotFound):
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name = email
		}
		u = User{
			ID:        uuid.NewString(),
			Name:      name,
			Email:     email,
			GoogleID:  id.Subject,
			AvatarURL: strings.TrimSpace(id.Picture),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return AuthResult{}, err
		}
	default:
		return AuthResult{}, err
	}

	return s.result(u)
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) result(u User) (AuthResult, error) {
	tok, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: u, Token: tok}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
