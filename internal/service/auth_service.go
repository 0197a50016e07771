package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/security"
)

type AuthResult struct {
	User        *domain.User
	AccessToken string
}

type AuthService struct {
	users      repository.UserRepository
	jwt        *security.JWTSigner
	passPolicy security.BcryptConfig
	now        func() time.Time
	reserved   map[string]struct{}
	log        *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	jwt *security.JWTSigner,
	passPolicy security.BcryptConfig,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		users:      users,
		jwt:        jwt,
		passPolicy: passPolicy,
		now:        now,
		log:        slog.Default().With("component", "auth"),
	}
}

// Reserve запрещает публичную регистрацию имён (monitor-пользователь и т.п.).
// Такие аккаунты создаются только через EnsureUser.
func (s *AuthService) Reserve(usernames ...string) {
	if s.reserved == nil {
		s.reserved = make(map[string]struct{}, len(usernames))
	}
	for _, u := range usernames {
		if u = domain.NormalizeUsername(u); u != "" {
			s.reserved[u] = struct{}{}
		}
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, errs.Validation("Username and password are required")
	}
	if _, ok := s.reserved[username]; ok {
		return nil, errs.Conflict("Username already taken")
	}

	u, err := s.create(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// EnsureUser создаёт служебного пользователя, если его ещё нет. Ограничение Reserve
// здесь не действует. created=false, если пользователь уже был.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	username = domain.NormalizeUsername(username)
	if username == "" || password == "" {
		return false, errs.Validation("Username and password are required")
	}
	_, err := s.create(ctx, username, password)
	switch {
	case err == nil:
		s.log.Info("service user created", slog.String("username", username))
		return true, nil
	case errors.Is(err, errs.ErrConflict):
		return false, nil
	default:
		return false, err
	}
}

func (s *AuthService) create(ctx context.Context, username, password string) (*domain.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		s.log.Error("auth.register.existsByUsername failed", slog.Any("err", err))
		return nil, errs.Persistence("check username", err)
	}
	if exists {
		return nil, errs.Conflict("Username already taken")
	}

	hash, err := s.passPolicy.Hash(password)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrPasswordTooShort):
			return nil, errs.Validation(fmt.Sprintf("Password must be at least %d characters", s.passPolicy.MinLen()))
		case errors.Is(err, security.ErrPasswordTooLong):
			return nil, errs.Validation("Password is too long")
		}
		s.log.Error("auth.register.hashPassword failed", slog.Any("err", err))
		return nil, err
	}

	u, err := domain.NewUser(username, hash, s.now())
	if err != nil {
		return nil, err
	}

	id, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, errs.Conflict("Username already taken")
		}
		s.log.Error("auth.register.createUser failed", slog.Any("err", err))
		return nil, errs.Persistence("create user", err)
	}
	u.ID = id
	return u, nil
}

// Login аутентифицирует по username+пароль и выпускает access-токен
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if domain.NormalizeUsername(username) == "" || password == "" {
		return nil, errs.Validation("Username and password are required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.Authentication("Invalid credentials", nil)
		}
		s.log.Error("auth.login.getByUsername failed", slog.Any("err", err))
		return nil, errs.Persistence("get user", err)
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, errs.Authentication("Invalid credentials", err)
	}

	return s.issue(u)
}

// Me возвращает профиль пользователя
func (s *AuthService) Me(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr("get user", "User not found", err)
	}
	return u, nil
}

func (s *AuthService) AccessTTL() time.Duration { return s.jwt.TTL() }

// VerifyToken проверяет access JWT и возвращает личность; любая ошибка даёт ErrAuthentication.
func (s *AuthService) VerifyToken(token string) (domain.Identity, error) {
	id, err := s.jwt.Identity(token)
	if err != nil {
		return domain.Identity{}, errs.Authentication("Invalid or expired token", err)
	}
	return id, nil
}

func (s *AuthService) IssueToken(id domain.Identity) (string, error) {
	return s.jwt.SignAccessToken(id, s.now())
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	access, err := s.jwt.SignAccessToken(u.Identity(), s.now())
	if err != nil {
		s.log.Error("auth.issueToken failed", slog.Any("err", err))
		return nil, err
	}
	return &AuthResult{User: u, AccessToken: access}, nil
}
