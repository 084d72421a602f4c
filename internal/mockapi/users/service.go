package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/console/internal/common"
	"github.com/dmitrijs2005/console/internal/mockapi/auth"
	"github.com/dmitrijs2005/console/internal/mockapi/config"
)

// ErrInvalidCredentials hides whether the user name or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid user name or password")

type Service struct {
	repo                    Repository
	jwtSecret               []byte
	defaultValidityDuration time.Duration
	now                     func() time.Time
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                    repo,
		jwtSecret:               []byte(cfg.SecretKey),
		defaultValidityDuration: cfg.TokenValidity,
		now:                     time.Now,
	}
}

func (s *Service) Register(ctx context.Context, user *User) (*User, error) {
	user.CreatedAt = s.now()

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return created, nil
}

// Login checks the password digest and issues a token valid for validity,
// or for the configured default when validity is not positive.
func (s *Service) Login(ctx context.Context, userName, digest string, validity time.Duration) (string, *User, error) {
	user, err := s.repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if subtle.ConstantTimeCompare([]byte(user.PasswordDigest), []byte(digest)) != 1 {
		return "", nil, ErrInvalidCredentials
	}

	if validity <= 0 {
		validity = s.defaultValidityDuration
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, validity)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate returns the owner of a valid token.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	return user, nil
}
