package db

import (
	"context"

	"github.com/terraincognita07/askesis/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PackageRepository struct {
	database *gorm.DB
}

func NewPackageRepository(database *gorm.DB) *PackageRepository {
	return &PackageRepository{database: database}
}

func (repo *PackageRepository) withItems(ctx context.Context) *gorm.DB {
	return repo.database.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Practice")
}

func (repo *PackageRepository) List(ctx context.Context, publishedOnly bool) ([]models.PracticePackage, error) {
	query := repo.withItems(ctx)
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}

	packages := make([]models.PracticePackage, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&packages).Error; err != nil {
		return nil, err
	}
	return packages, nil
}

func (repo *PackageRepository) FindByID(ctx context.Context, packageID uint) (models.PracticePackage, bool, error) {
	var pkg models.PracticePackage
	result := repo.withItems(ctx).Where("id = ?", packageID).Limit(1).Find(&pkg)
	if result.Error != nil {
		return models.PracticePackage{}, false, result.Error
	}
	return pkg, result.RowsAffected > 0, nil
}

func (repo *PackageRepository) Create(ctx context.Context, pkg *models.PracticePackage) error {
	items := pkg.Items
	pkg.Items = nil

	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(pkg).Error; err != nil {
			return err
		}
		return createPackageItems(tx, pkg.ID, items)
	})
	pkg.Items = items
	return err
}

// Update writes the package columns and, when replaceItems is set, swaps the
// whole item list for items.
func (repo *PackageRepository) Update(ctx context.Context, pkg *models.PracticePackage, items []models.PackageItem, replaceItems bool) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PracticePackage{}).Where("id = ?", pkg.ID).Updates(map[string]any{
			"title":           pkg.Title,
			"description":     pkg.Description,
			"custom_metadata": pkg.Metadata,
			"updated_at":      pkg.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		if !replaceItems {
			return nil
		}

		if err := tx.Where("package_id = ?", pkg.ID).Delete(&models.PackageItem{}).Error; err != nil {
			return err
		}
		return createPackageItems(tx, pkg.ID, items)
	})
}

func createPackageItems(tx *gorm.DB, packageID uint, items []models.PackageItem) error {
	if len(items) == 0 {
		return nil
	}
	for index := range items {
		items[index].ID = 0
		items[index].PackageID = packageID
	}
	return tx.Omit(clause.Associations).Create(&items).Error
}

func (repo *PackageRepository) SetPublished(ctx context.Context, packageID uint, published bool) error {
	return repo.database.WithContext(ctx).
		Model(&models.PracticePackage{}).
		Where("id = ?", packageID).
		Update("is_published", published).Error
}

func (repo *PackageRepository) Delete(ctx context.Context, packageID uint) (bool, error) {
	deleted := false
	err := repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("package_id = ?", packageID).Delete(&models.PackageItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PracticePackage{}, packageID)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
