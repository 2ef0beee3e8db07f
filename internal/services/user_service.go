package services

import (
	"context"
	"errors"
	"strings"

	"github.com/terraincognita07/askesis/internal/models"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID uint) (models.User, bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error)
	Create(ctx context.Context, user *models.User) error
	ListWithCommitmentCounts(ctx context.Context) ([]UserSummary, error)
	UpdateByID(ctx context.Context, userID uint, updates map[string]any) error
}

// UserSummary is an admin listing row.
type UserSummary struct {
	models.User
	CommitmentCount int64 `json:"commitmentCount"`
}

type UserService struct {
	users UserRepository
	clock Clock
}

func NewUserService(users UserRepository, clock Clock) *UserService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &UserService{users: users, clock: clock}
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Resolve returns the user behind an authenticated email, creating it with
// the USER role on first sight.
func (service *UserService) Resolve(ctx context.Context, rawEmail string, name string) (models.User, error) {
	email := NormalizeEmail(rawEmail)
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, ErrUserNotFound
	}

	user, found, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, storeError("find user", err)
	}
	if found {
		return user, nil
	}

	user = models.User{
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      models.RoleUser,
		CreatedAt: service.clock.Now(),
	}
	if err := service.users.Create(ctx, &user); err != nil {
		if !errors.Is(err, ErrDuplicate) {
			return models.User{}, storeError("create user", err)
		}
		// Lost a concurrent first-login race; the other request created the row.
		existing, found, findErr := service.users.FindByNormalizedEmail(ctx, email)
		if findErr != nil {
			return models.User{}, storeError("find user", findErr)
		}
		if !found {
			return models.User{}, storeError("create user", err)
		}
		return existing, nil
	}
	return user, nil
}

func (service *UserService) FindByID(ctx context.Context, userID uint) (models.User, error) {
	user, found, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, storeError("find user", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *UserService) FindByEmail(ctx context.Context, rawEmail string) (models.User, error) {
	user, found, err := service.users.FindByNormalizedEmail(ctx, NormalizeEmail(rawEmail))
	if err != nil {
		return models.User{}, storeError("find user", err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (service *UserService) List(ctx context.Context) ([]UserSummary, error) {
	users, err := service.users.ListWithCommitmentCounts(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// SetRole changes a user's role. An admin cannot change their own role.
func (service *UserService) SetRole(ctx context.Context, actorID uint, userID uint, rawRole string) (models.User, error) {
	role := strings.ToUpper(strings.TrimSpace(rawRole))
	if !models.IsValidRole(role) {
		return models.User{}, ErrInvalidRole
	}
	if actorID == userID {
		return models.User{}, ErrSelfModification
	}
	return service.update(ctx, userID, map[string]any{"role": role})
}

// SetBanned bans or unbans a user. An admin cannot ban themselves.
func (service *UserService) SetBanned(ctx context.Context, actorID uint, userID uint, banned bool) (models.User, error) {
	if actorID == userID {
		return models.User{}, ErrSelfModification
	}
	return service.update(ctx, userID, map[string]any{"is_banned": banned})
}

func (service *UserService) update(ctx context.Context, userID uint, updates map[string]any) (models.User, error) {
	if _, err := service.FindByID(ctx, userID); err != nil {
		return models.User{}, err
	}
	if err := service.users.UpdateByID(ctx, userID, updates); err != nil {
		return models.User{}, storeError("update user", err)
	}
	return service.FindByID(ctx, userID)
}
