package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/terraincognita07/askesis/internal/models"
)

type PackageRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]models.PracticePackage, error)
	FindByID(ctx context.Context, packageID uint) (models.PracticePackage, bool, error)
	Create(ctx context.Context, pkg *models.PracticePackage) error
	Update(ctx context.Context, pkg *models.PracticePackage, items []models.PackageItem, replaceItems bool) error
	SetPublished(ctx context.Context, packageID uint, published bool) error
	Delete(ctx context.Context, packageID uint) (bool, error)
}

type PackageItemInput struct {
	PracticeID uint    `json:"asceticismId"`
	Order      *int    `json:"order"`
	Notes      *string `json:"notes"`
}

type PackageInput struct {
	Title       string
	Description *string
	Metadata    map[string]any
	Items       []PackageItemInput
}

// PackageUpdate replaces the item list only when Items is set.
type PackageUpdate struct {
	Title       Optional[string]             `json:"title"`
	Description Optional[*string]            `json:"description"`
	Metadata    Optional[map[string]any]     `json:"custom_metadata"`
	Items       Optional[[]PackageItemInput] `json:"items"`
}

type AddToAccountInput struct {
	UserID    uint
	PackageID uint
	StartDate *string
	EndDate   *string
}

type AddToAccountResult struct {
	AddedCount       int                      `json:"addedCount"`
	ReactivatedCount int                      `json:"reactivatedCount"`
	SkippedCount     int                      `json:"skippedCount"`
	Commitments      []CommitmentWithPractice `json:"commitments"`
}

type PackageService struct {
	packages  PackageRepository
	practices PracticeRepository
	lifecycle *LifecycleService
	clock     Clock
}

func NewPackageService(packages PackageRepository, practices PracticeRepository, lifecycle *LifecycleService, clock Clock) *PackageService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PackageService{
		packages:  packages,
		practices: practices,
		lifecycle: lifecycle,
		clock:     clock,
	}
}

func (service *PackageService) buildItems(ctx context.Context, inputs []PackageItemInput) ([]models.PackageItem, error) {
	items := make([]models.PackageItem, 0, len(inputs))
	for index, input := range inputs {
		if input.PracticeID == 0 {
			return nil, ErrInvalidPackage
		}
		if _, found, err := service.practices.FindByID(ctx, input.PracticeID); err != nil {
			return nil, storeError("find practice", err)
		} else if !found {
			return nil, ErrPracticeNotFound
		}

		order := index
		if input.Order != nil {
			order = *input.Order
		}
		items = append(items, models.PackageItem{
			PracticeID: input.PracticeID,
			SortOrder:  order,
			Notes:      input.Notes,
		})
	}
	return items, nil
}

func (service *PackageService) ListAll(ctx context.Context) ([]models.PracticePackage, error) {
	packages, err := service.packages.List(ctx, false)
	if err != nil {
		return nil, storeError("list packages", err)
	}
	return packages, nil
}

func (service *PackageService) Browse(ctx context.Context) ([]models.PracticePackage, error) {
	packages, err := service.packages.List(ctx, true)
	if err != nil {
		return nil, storeError("list published packages", err)
	}
	return packages, nil
}

func (service *PackageService) Find(ctx context.Context, packageID uint) (models.PracticePackage, error) {
	pkg, found, err := service.packages.FindByID(ctx, packageID)
	if err != nil {
		return models.PracticePackage{}, storeError("find package", err)
	}
	if !found {
		return models.PracticePackage{}, ErrPackageNotFound
	}
	return pkg, nil
}

// FindPublished hides unpublished packages from non-admin callers.
func (service *PackageService) FindPublished(ctx context.Context, packageID uint) (models.PracticePackage, error) {
	pkg, err := service.Find(ctx, packageID)
	if err != nil {
		return models.PracticePackage{}, err
	}
	if !pkg.IsPublished {
		return models.PracticePackage{}, ErrPackageNotPublished
	}
	return pkg, nil
}

func (service *PackageService) Create(ctx context.Context, creatorID uint, input PackageInput) (models.PracticePackage, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.PracticePackage{}, ErrInvalidPackage
	}

	items, err := service.buildItems(ctx, input.Items)
	if err != nil {
		return models.PracticePackage{}, err
	}

	now := service.clock.Now()
	pkg := models.PracticePackage{
		Title:       title,
		Description: input.Description,
		CreatorID:   creatorID,
		Metadata:    input.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       items,
	}
	if err := service.packages.Create(ctx, &pkg); err != nil {
		return models.PracticePackage{}, storeError("create package", err)
	}
	return service.Find(ctx, pkg.ID)
}

func (service *PackageService) Update(ctx context.Context, packageID uint, update PackageUpdate) (models.PracticePackage, error) {
	pkg, err := service.Find(ctx, packageID)
	if err != nil {
		return models.PracticePackage{}, err
	}

	if title, ok := update.Title.Get(); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return models.PracticePackage{}, ErrInvalidPackage
		}
		pkg.Title = title
	}
	if description, ok := update.Description.Get(); ok {
		pkg.Description = description
	}
	if metadata, ok := update.Metadata.Get(); ok {
		pkg.Metadata = metadata
	}

	var items []models.PackageItem
	inputs, replaceItems := update.Items.Get()
	if replaceItems {
		items, err = service.buildItems(ctx, inputs)
		if err != nil {
			return models.PracticePackage{}, err
		}
	}

	pkg.UpdatedAt = service.clock.Now()
	pkg.Items = nil
	if err := service.packages.Update(ctx, &pkg, items, replaceItems); err != nil {
		return models.PracticePackage{}, storeError("update package", err)
	}
	return service.Find(ctx, packageID)
}

// TogglePublish flips the published flag and returns the new state.
func (service *PackageService) TogglePublish(ctx context.Context, packageID uint) (models.PracticePackage, error) {
	pkg, err := service.Find(ctx, packageID)
	if err != nil {
		return models.PracticePackage{}, err
	}
	if err := service.packages.SetPublished(ctx, packageID, !pkg.IsPublished); err != nil {
		return models.PracticePackage{}, storeError("publish package", err)
	}
	pkg.IsPublished = !pkg.IsPublished
	return pkg, nil
}

func (service *PackageService) Delete(ctx context.Context, packageID uint) error {
	deleted, err := service.packages.Delete(ctx, packageID)
	if err != nil {
		return storeError("delete package", err)
	}
	if !deleted {
		return ErrPackageNotFound
	}
	return nil
}

// AddToAccount joins every practice of a published package in one store
// transaction. Practices the user already tracks are skipped; archived ones
// are reactivated.
func (service *PackageService) AddToAccount(ctx context.Context, input AddToAccountInput) (AddToAccountResult, error) {
	pkg, err := service.FindPublished(ctx, input.PackageID)
	if err != nil {
		return AddToAccountResult{}, err
	}
	if err := validateJoinDates(input.StartDate, input.EndDate); err != nil {
		return AddToAccountResult{}, err
	}

	items := append([]models.PackageItem(nil), pkg.Items...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortOrder < items[j].SortOrder
	})

	var result AddToAccountResult
	err = service.lifecycle.store.WithinTransaction(ctx, func(store CommitmentStore) error {
		lifecycle := service.lifecycle.bound(store)
		result = AddToAccountResult{Commitments: make([]CommitmentWithPractice, 0, len(items))}
		for _, item := range items {
			joined, outcome, err := lifecycle.JoinWithOutcome(ctx, JoinInput{
				UserID:     input.UserID,
				PracticeID: item.PracticeID,
				StartDate:  input.StartDate,
				EndDate:    input.EndDate,
			})
			if errors.Is(err, ErrAlreadyActive) {
				result.SkippedCount++
				continue
			}
			if err != nil {
				return err
			}

			if outcome == JoinReactivated {
				result.ReactivatedCount++
			} else {
				result.AddedCount++
			}
			result.Commitments = append(result.Commitments, joined)
		}
		return nil
	})
	if err != nil {
		return AddToAccountResult{}, err
	}
	return result, nil
}

func validateJoinDates(rawStart *string, rawEnd *string) error {
	if rawEnd == nil || strings.TrimSpace(*rawEnd) == "" {
		if rawStart != nil && strings.TrimSpace(*rawStart) != "" {
			_, err := NormalizeDay(*rawStart)
			return err
		}
		return nil
	}

	end, err := NormalizeDay(*rawEnd)
	if err != nil {
		return err
	}
	if rawStart == nil || strings.TrimSpace(*rawStart) == "" {
		return nil
	}
	start, err := NormalizeDay(*rawStart)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return ErrInvalidDateRange
	}
	return nil
}
