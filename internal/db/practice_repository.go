package db

import (
	"context"

	"github.com/terraincognita07/askesis/internal/models"
	"gorm.io/gorm"
)

type PracticeRepository struct {
	database *gorm.DB
}

func NewPracticeRepository(database *gorm.DB) *PracticeRepository {
	return &PracticeRepository{database: database}
}

func (repo *PracticeRepository) ListTemplates(ctx context.Context, category string) ([]models.Practice, error) {
	query := repo.database.WithContext(ctx).Where("is_template = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	practices := make([]models.Practice, 0)
	if err := query.Order("title ASC, id ASC").Find(&practices).Error; err != nil {
		return nil, err
	}
	return practices, nil
}

func (repo *PracticeRepository) FindByID(ctx context.Context, practiceID uint) (models.Practice, bool, error) {
	return findPractice(repo.database.WithContext(ctx), practiceID)
}

func (repo *PracticeRepository) Create(ctx context.Context, practice *models.Practice) error {
	return translateDuplicate(repo.database.WithContext(ctx).Create(practice).Error)
}

func (repo *PracticeRepository) Save(ctx context.Context, practice *models.Practice) error {
	return translateDuplicate(repo.database.WithContext(ctx).Save(practice).Error)
}

// Delete removes the practice and its package memberships.
func (repo *PracticeRepository) Delete(ctx context.Context, practiceID uint) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("practice_id = ?", practiceID).Delete(&models.PackageItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Practice{}, practiceID).Error
	})
}

func (repo *PracticeRepository) CountCommitments(ctx context.Context, practiceID uint) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Commitment{}).
		Where("practice_id = ?", practiceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
