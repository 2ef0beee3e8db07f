package services

import (
	"context"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
)

const MaxLogNotesLength = 2000

type RecordInput struct {
	CommitmentID uint
	Date         string
	Completed    *bool
	Value        *float64
	Notes        *string
	Metadata     map[string]any
}

type LogService struct {
	store CommitmentStore
}

func NewLogService(store CommitmentStore) *LogService {
	return &LogService{store: store}
}

// Record upserts the log for one UTC day. Completed is always applied
// (omitted means false); the other fields only when provided.
func (service *LogService) Record(ctx context.Context, input RecordInput) (models.LogEntry, error) {
	day, err := NormalizeDay(input.Date)
	if err != nil {
		return models.LogEntry{}, err
	}

	fields := LogFields{
		Value:    input.Value,
		Notes:    trimLogNotes(input.Notes),
		Metadata: input.Metadata,
	}
	if input.Completed != nil {
		fields.Completed = *input.Completed
	}

	if _, found, err := service.store.FindCommitmentByID(ctx, input.CommitmentID); err != nil {
		return models.LogEntry{}, storeError("find commitment", err)
	} else if !found {
		return models.LogEntry{}, ErrNotFound
	}

	entry, err := service.store.UpsertLog(ctx, input.CommitmentID, day, fields)
	if err != nil {
		return models.LogEntry{}, storeError("upsert log", err)
	}
	return entry, nil
}

// DeleteLog removes the log for one day. It reports whether a row existed.
func (service *LogService) DeleteLog(ctx context.Context, commitmentID uint, rawDate string) (bool, error) {
	day, err := NormalizeDay(rawDate)
	if err != nil {
		return false, err
	}
	if _, found, err := service.store.FindCommitmentByID(ctx, commitmentID); err != nil {
		return false, storeError("find commitment", err)
	} else if !found {
		return false, ErrNotFound
	}

	deleted, err := service.store.DeleteLog(ctx, commitmentID, day)
	if err != nil {
		return false, storeError("delete log", err)
	}
	return deleted, nil
}

func (service *LogService) FindLog(ctx context.Context, commitmentID uint, day time.Time) (models.LogEntry, bool, error) {
	entry, found, err := service.store.FindLog(ctx, commitmentID, UTCDay(day))
	if err != nil {
		return models.LogEntry{}, false, storeError("find log", err)
	}
	return entry, found, nil
}

func trimLogNotes(notes *string) *string {
	if notes == nil || len(*notes) <= MaxLogNotesLength {
		return notes
	}
	trimmed := (*notes)[:MaxLogNotesLength]
	return &trimmed
}
