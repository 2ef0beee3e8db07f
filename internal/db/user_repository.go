package db

import (
	"context"

	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *UserRepository) FindByID(ctx context.Context, userID uint) (models.User, bool, error) {
	var user models.User
	result := repo.database.WithContext(ctx).Where("id = ?", userID).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	return user, result.RowsAffected > 0, nil
}

func (repo *UserRepository) FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error) {
	var user models.User
	result := repo.database.WithContext(ctx).Where("lower(trim(email)) = ?", email).Limit(1).Find(&user)
	if result.Error != nil {
		return models.User{}, false, result.Error
	}
	return user, result.RowsAffected > 0, nil
}

func (repo *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translateDuplicate(repo.database.WithContext(ctx).Create(user).Error)
}

func (repo *UserRepository) UpdateByID(ctx context.Context, userID uint, updates map[string]any) error {
	return repo.database.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (repo *UserRepository) ListWithCommitmentCounts(ctx context.Context) ([]services.UserSummary, error) {
	rows := make([]services.UserSummary, 0)
	if err := repo.database.WithContext(ctx).
		Model(&models.User{}).
		Select("users.*, COUNT(commitments.id) AS commitment_count").
		Joins("LEFT JOIN commitments ON commitments.user_id = users.id").
		Group("users.id").
		Order("users.created_at DESC, users.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
