package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meltforce/fitlog/internal/models"
	"github.com/meltforce/fitlog/internal/storage"
)

// Store is the user persistence the service needs.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*storage.SQLite)(nil)
)

// Session is a signed-in user and their bearer token.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Service implements signup, login, logout and token authentication.
type Service struct {
	store   Store
	hasher  *Hasher
	tokens  *JWTService
	revoker Revoker
	log     *slog.Logger
}

func NewService(store Store, hasher *Hasher, tokens *JWTService, revoker Revoker, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, hasher: hasher, tokens: tokens, revoker: revoker, log: log}
}

// Signup creates an account and signs it in. Usernames are trimmed and
// emails trimmed and lowercased before uniqueness checks.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*Session, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	if taken, err := s.store.UsernameExists(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, &ErrUsernameTaken{Username: req.Username}
	}
	if taken, err := s.store.EmailExists(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, &ErrEmailTaken{Email: req.Email}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, req.Username, req.Email, hash)
	if errors.Is(err, storage.ErrDuplicate) {
		// Lost a race with a concurrent signup.
		if taken, _ := s.store.EmailExists(ctx, req.Email); taken {
			return nil, &ErrEmailTaken{Email: req.Email}
		}
		return nil, &ErrUsernameTaken{Username: req.Username}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return s.session(user)
}

// Login signs in by username or email.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	login := strings.TrimSpace(req.Username)
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := s.store.FindUserByLogin(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &ErrInvalidCredentials{}
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return s.session(user)
}

// Logout revokes the token described by claims until it expires.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return err
	}
	s.log.Info("user logged out", "subject", claims.Subject)
	return nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, &ErrUnauthorized{Reason: err.Error()}
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("checking token: %w", err)
	}
	if revoked {
		return nil, &ErrUnauthorized{Reason: "token has been revoked"}
	}
	return claims, nil
}

// Me returns the account for userID.
func (s *Service) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
