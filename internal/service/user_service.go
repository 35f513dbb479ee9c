package service

import (
	"context"
	"errors"
	"time"

	"bizledger/internal/access"
	"bizledger/internal/apperr"
	"bizledger/internal/credential"
	"bizledger/internal/model"
	"bizledger/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin user"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

type ChangeOwnPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type TokenResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	Username  string   `json:"username"`
	Role      string   `json:"role"`
	Modules   []string `json:"modules"`
}

// DTO for returning User without exposing the credential
type UserResponse struct {
	Username  string   `json:"username"`
	Role      string   `json:"role"`
	Modules   []string `json:"modules"`
	CreatedAt string   `json:"created_at"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	Me(ctx context.Context, username string) (*UserResponse, error)
	RoleOf(ctx context.Context, username string) (string, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	ChangeRole(ctx context.Context, username string, req ChangeRoleRequest) (*UserResponse, error)
	SetPassword(ctx context.Context, username string, req SetPasswordRequest) error
	ChangeOwnPassword(ctx context.Context, username string, req ChangeOwnPasswordRequest) error
	DeleteUser(ctx context.Context, username string) error
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type userService struct {
	users       repository.Collection[model.User]
	txManager   repository.TransactionManager
	credentials *credential.Store
	jwtSecret   []byte
	jwtTTL      time.Duration
	now         Clock
	log         *zap.Logger
}

// NewUserService returns a new instance of UserService
func NewUserService(
	users repository.Collection[model.User],
	txManager repository.TransactionManager,
	credentials *credential.Store,
	jwtSecret []byte,
	jwtTTL time.Duration,
	now Clock,
	log *zap.Logger,
) UserService {
	if jwtTTL <= 0 {
		jwtTTL = 24 * time.Hour
	}
	return &userService{
		users:       users,
		txManager:   txManager,
		credentials: credentials,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
		now:         orNow(now),
		log:         log.Named("users"),
	}
}

func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		Username:  user.Username,
		Role:      user.Role,
		Modules:   access.ModuleList(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

var errBadLogin = apperr.New(apperr.CodeUnauthorized, "invalid username or password")

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.Get(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errBadLogin
		}
		return nil, err
	}
	if !s.credentials.Verify(user.Password, req.Password) {
		s.log.Info("login rejected", zap.String("username", req.Username))
		return nil, errBadLogin
	}

	if s.credentials.NeedsRehash(user.Password) {
		s.upgradeCredential(ctx, user.Username, req.Password)
	}

	expires := s.now().Add(s.jwtTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.Username,
		"role": user.Role,
		"iat":  s.now().Unix(),
		"exp":  expires.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, apperr.New(apperr.CodeUnauthorized, "failed to generate token")
	}

	return &TokenResponse{
		Token:     tokenString,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
		Username:  user.Username,
		Role:      user.Role,
		Modules:   access.ModuleList(user.Role),
	}, nil
}

// upgradeCredential rewrites a bcrypt or legacy credential in the current
// format. Failure only costs another upgrade attempt at the next login.
func (s *userService) upgradeCredential(ctx context.Context, username, plaintext string) {
	fresh, err := s.credentials.Create(plaintext)
	if err == nil {
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			_, err := s.users.Update(txCtx, username, func(u *model.User) error {
				u.Password = fresh
				return nil
			})
			return err
		}, model.TableUsers)
	}
	if err != nil {
		s.log.Warn("credential upgrade failed", zap.String("username", username), zap.Error(err))
		return
	}
	s.log.Info("credential upgraded", zap.String("username", username))
}

func (s *userService) Me(ctx context.Context, username string) (*UserResponse, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

// RoleOf returns the stored role, so demotions apply to tokens already issued
func (s *userService) RoleOf(ctx context.Context, username string) (string, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	hashed, err := s.credentials.Create(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: req.Username, Password: hashed, Role: req.Role}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.users.Append(txCtx, user)
	}, model.TableUsers)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) ChangeRole(ctx context.Context, username string, req ChangeRoleRequest) (*UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var out *model.User
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.Role != model.RoleAdmin {
			if err := s.ensureNotLastAdmin(txCtx, username); err != nil {
				return err
			}
		}
		u, err := s.users.Update(txCtx, username, func(u *model.User) error {
			u.Role = req.Role
			return nil
		})
		out = u
		return err
	}, model.TableUsers)
	if err != nil {
		return nil, err
	}
	return mapToResponse(out), nil
}

func (s *userService) SetPassword(ctx context.Context, username string, req SetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	return s.storePassword(ctx, username, req.Password)
}

func (s *userService) ChangeOwnPassword(ctx context.Context, username string, req ChangeOwnPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	if !s.credentials.Verify(user.Password, req.CurrentPassword) {
		return apperr.Validation("current password is incorrect")
	}
	return s.storePassword(ctx, username, req.NewPassword)
}

func (s *userService) storePassword(ctx context.Context, username, plaintext string) error {
	hashed, err := s.credentials.Create(plaintext)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := s.users.Update(txCtx, username, func(u *model.User) error {
			u.Password = hashed
			return nil
		})
		return err
	}, model.TableUsers)
}

func (s *userService) DeleteUser(ctx context.Context, username string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureNotLastAdmin(txCtx, username); err != nil {
			return err
		}
		return s.users.Remove(txCtx, username)
	}, model.TableUsers)
}

// ensureNotLastAdmin fails when username is the only remaining admin
func (s *userService) ensureNotLastAdmin(ctx context.Context, username string) error {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		return err
	}
	if user.Role != model.RoleAdmin {
		return nil
	}
	admins, err := s.users.Find(ctx, func(u model.User) bool { return u.Role == model.RoleAdmin })
	if err != nil {
		return err
	}
	if len(admins) <= 1 {
		return apperr.Validation("%q is the last admin and must stay an admin", username)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin when no user exists yet. It
// reports whether an account was created.
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	created := false
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		n, err := s.users.Count(txCtx)
		if err != nil || n > 0 {
			return err
		}
		hashed, err := s.credentials.Create(password)
		if err != nil {
			return err
		}
		if err := s.users.Append(txCtx, &model.User{Username: username, Password: hashed, Role: model.RoleAdmin}); err != nil {
			return err
		}
		created = true
		return nil
	}, model.TableUsers)
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("bootstrap admin created", zap.String("username", username))
	}
	return created, nil
}
