package db

import (
	"context"
	"errors"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommitmentStore implements services.CommitmentStore on gorm. The
// one-active-per-pair rule is enforced by uidx_commitments_active_pair.
type CommitmentStore struct {
	database *gorm.DB
}

func NewCommitmentStore(database *gorm.DB) *CommitmentStore {
	return &CommitmentStore{database: database}
}

func (store *CommitmentStore) WithinTransaction(ctx context.Context, fn func(services.CommitmentStore) error) error {
	return store.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CommitmentStore{database: tx})
	})
}

func (store *CommitmentStore) FindCommitment(ctx context.Context, userID uint, practiceID uint, status string) (models.Commitment, bool, error) {
	var commitment models.Commitment
	result := store.database.WithContext(ctx).
		Where("user_id = ? AND practice_id = ? AND status = ?", userID, practiceID, status).
		Order("updated_at DESC, id DESC").
		Limit(1).
		Find(&commitment)
	if result.Error != nil {
		return models.Commitment{}, false, result.Error
	}
	return commitment, result.RowsAffected > 0, nil
}

func (store *CommitmentStore) FindCommitmentByID(ctx context.Context, commitmentID uint) (models.Commitment, bool, error) {
	var commitment models.Commitment
	result := store.database.WithContext(ctx).Where("id = ?", commitmentID).Limit(1).Find(&commitment)
	if result.Error != nil {
		return models.Commitment{}, false, result.Error
	}
	return commitment, result.RowsAffected > 0, nil
}

func (store *CommitmentStore) CreateCommitment(ctx context.Context, commitment *models.Commitment) error {
	return translateCommitmentError(store.database.WithContext(ctx).Create(commitment).Error)
}

func (store *CommitmentStore) UpdateCommitment(ctx context.Context, commitmentID uint, updates map[string]any) (models.Commitment, error) {
	if err := store.database.WithContext(ctx).
		Model(&models.Commitment{}).
		Where("id = ?", commitmentID).
		Updates(updates).Error; err != nil {
		return models.Commitment{}, translateCommitmentError(err)
	}

	commitment, found, err := store.FindCommitmentByID(ctx, commitmentID)
	if err != nil {
		return models.Commitment{}, err
	}
	if !found {
		return models.Commitment{}, services.ErrNotFound
	}
	return commitment, nil
}

func (store *CommitmentStore) ListCommitments(ctx context.Context, userID uint, statuses []string, overlap *services.DateWindow) ([]models.Commitment, error) {
	query := store.database.WithContext(ctx).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if overlap != nil {
		if overlap.End != nil {
			query = query.Where("start_date <= ?", *overlap.End)
		}
		if overlap.Start != nil {
			query = query.Where("(end_date IS NULL OR end_date >= ?)", *overlap.Start)
		}
	}

	commitments := make([]models.Commitment, 0)
	if err := query.Order("created_at DESC, id DESC").Find(&commitments).Error; err != nil {
		return nil, err
	}
	return commitments, nil
}

func (store *CommitmentStore) FindLog(ctx context.Context, commitmentID uint, day time.Time) (models.LogEntry, bool, error) {
	dayStart, dayEnd := services.DayRange(day)

	var entry models.LogEntry
	result := store.database.WithContext(ctx).
		Where("commitment_id = ? AND date >= ? AND date < ?", commitmentID, dayStart, dayEnd).
		Order("date DESC, id DESC").
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.LogEntry{}, false, result.Error
	}
	return entry, result.RowsAffected > 0, nil
}

// UpsertLog inserts or updates the log for (commitmentID, day) in a single
// statement so concurrent writers converge on one row.
func (store *CommitmentStore) UpsertLog(ctx context.Context, commitmentID uint, day time.Time, fields services.LogFields) (models.LogEntry, error) {
	day = services.UTCDay(day)
	entry := models.LogEntry{
		CommitmentID: commitmentID,
		Date:         day,
		Completed:    fields.Completed,
		Value:        fields.Value,
		Notes:        fields.Notes,
	}
	columns := []string{"completed", "updated_at"}
	if fields.Value != nil {
		columns = append(columns, "value")
	}
	if fields.Notes != nil {
		columns = append(columns, "notes")
	}
	if fields.Metadata != nil {
		entry.Metadata = fields.Metadata
		columns = append(columns, "custom_metadata")
	}

	err := store.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "commitment_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&entry).Error
	if err != nil {
		return models.LogEntry{}, err
	}

	stored, found, err := store.FindLog(ctx, commitmentID, day)
	if err != nil {
		return models.LogEntry{}, err
	}
	if !found {
		return models.LogEntry{}, errors.New("upserted log entry not found")
	}
	return stored, nil
}

func (store *CommitmentStore) ListLogs(ctx context.Context, commitmentID uint, window services.DateWindow, order services.SortOrder) ([]models.LogEntry, error) {
	query := store.database.WithContext(ctx).Where("commitment_id = ?", commitmentID)
	if window.Start != nil {
		query = query.Where("date >= ?", *window.Start)
	}
	if window.End != nil {
		query = query.Where("date <= ?", *window.End)
	}

	direction := "ASC"
	if order == services.SortDescending {
		direction = "DESC"
	}

	entries := make([]models.LogEntry, 0)
	if err := query.Order("date " + direction + ", id " + direction).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (store *CommitmentStore) DeleteLog(ctx context.Context, commitmentID uint, day time.Time) (bool, error) {
	dayStart, dayEnd := services.DayRange(day)
	result := store.database.WithContext(ctx).
		Where("commitment_id = ? AND date >= ? AND date < ?", commitmentID, dayStart, dayEnd).
		Delete(&models.LogEntry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (store *CommitmentStore) FindPractice(ctx context.Context, practiceID uint) (models.Practice, bool, error) {
	return findPractice(store.database.WithContext(ctx), practiceID)
}

func findPractice(database *gorm.DB, practiceID uint) (models.Practice, bool, error) {
	var practice models.Practice
	result := database.Where("id = ?", practiceID).Limit(1).Find(&practice)
	if result.Error != nil {
		return models.Practice{}, false, result.Error
	}
	return practice, result.RowsAffected > 0, nil
}

func translateCommitmentError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return services.ErrAlreadyActive
	}
	return err
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return services.ErrDuplicate
	}
	return err
}
