package services

import (
	"context"
	"strings"

	"github.com/terraincognita07/askesis/internal/models"
)

type PracticeRepository interface {
	ListTemplates(ctx context.Context, category string) ([]models.Practice, error)
	FindByID(ctx context.Context, practiceID uint) (models.Practice, bool, error)
	Create(ctx context.Context, practice *models.Practice) error
	Save(ctx context.Context, practice *models.Practice) error
	Delete(ctx context.Context, practiceID uint) error
	CountCommitments(ctx context.Context, practiceID uint) (int64, error)
}

type PracticeInput struct {
	Title       string
	Description *string
	Category    string
	Icon        *string
	Type        string
	Metadata    map[string]any
	CreatorID   *uint
}

// Actor is the authenticated caller of a catalog or package operation.
type Actor struct {
	UserID uint
	Admin  bool
}

type CatalogService struct {
	practices PracticeRepository
	clock     Clock
}

func NewCatalogService(practices PracticeRepository, clock Clock) *CatalogService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &CatalogService{practices: practices, clock: clock}
}

func normalizePracticeInput(input PracticeInput) (PracticeInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))
	if input.Type == "" {
		input.Type = models.TrackingBoolean
	}
	if input.Title == "" || input.Category == "" {
		return input, ErrInvalidPractice
	}
	return input, nil
}

func (service *CatalogService) ListTemplates(ctx context.Context, category string) ([]models.Practice, error) {
	practices, err := service.practices.ListTemplates(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, storeError("list templates", err)
	}
	return practices, nil
}

func (service *CatalogService) FindPractice(ctx context.Context, practiceID uint) (models.Practice, error) {
	practice, found, err := service.practices.FindByID(ctx, practiceID)
	if err != nil {
		return models.Practice{}, storeError("find practice", err)
	}
	if !found {
		return models.Practice{}, ErrPracticeNotFound
	}
	return practice, nil
}

// CreatePractice stores a template when CreatorID is nil and a custom
// practice otherwise. Only admins create templates or practices for others.
func (service *CatalogService) CreatePractice(ctx context.Context, actor Actor, input PracticeInput) (models.Practice, error) {
	if !actor.Admin {
		if input.CreatorID == nil || *input.CreatorID != actor.UserID {
			return models.Practice{}, ErrForbidden
		}
	}

	input, err := normalizePracticeInput(input)
	if err != nil {
		return models.Practice{}, err
	}

	now := service.clock.Now()
	practice := models.Practice{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Icon:        input.Icon,
		Type:        input.Type,
		IsTemplate:  input.CreatorID == nil,
		CreatorID:   input.CreatorID,
		Metadata:    input.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := service.practices.Create(ctx, &practice); err != nil {
		return models.Practice{}, storeError("create practice", err)
	}
	return practice, nil
}

func (service *CatalogService) UpdatePractice(ctx context.Context, practiceID uint, input PracticeInput) (models.Practice, error) {
	input, err := normalizePracticeInput(input)
	if err != nil {
		return models.Practice{}, err
	}

	practice, err := service.FindPractice(ctx, practiceID)
	if err != nil {
		return models.Practice{}, err
	}

	practice.Title = input.Title
	practice.Category = input.Category
	practice.Type = input.Type
	if input.Description != nil {
		practice.Description = input.Description
	}
	if input.Icon != nil {
		practice.Icon = input.Icon
	}
	if input.Metadata != nil {
		practice.Metadata = input.Metadata
	}
	practice.UpdatedAt = service.clock.Now()

	if err := service.practices.Save(ctx, &practice); err != nil {
		return models.Practice{}, storeError("update practice", err)
	}
	return practice, nil
}

// DeletePractice refuses to remove a practice any commitment still references.
func (service *CatalogService) DeletePractice(ctx context.Context, practiceID uint) error {
	if _, err := service.FindPractice(ctx, practiceID); err != nil {
		return err
	}

	count, err := service.practices.CountCommitments(ctx, practiceID)
	if err != nil {
		return storeError("count commitments", err)
	}
	if count > 0 {
		return ErrPracticeInUse
	}

	if err := service.practices.Delete(ctx, practiceID); err != nil {
		return storeError("delete practice", err)
	}
	return nil
}
