package services

import (
	"context"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
)

type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// DateWindow bounds a query. Start is inclusive from its instant, End is
// inclusive through its instant; either side may be open.
type DateWindow struct {
	Start *time.Time
	End   *time.Time
}

func (window DateWindow) IsOpen() bool {
	return window.Start == nil && window.End == nil
}

// LogFields carries a log upsert. Completed is always written; the pointer
// and map fields are written only when non-nil.
type LogFields struct {
	Completed bool
	Value     *float64
	Notes     *string
	Metadata  map[string]any
}

// CommitmentStore is the persistence contract of the engine. Implementations
// must make UpsertLog atomic per (commitmentID, day) and reject a second
// ACTIVE commitment for the same (user, practice) with ErrAlreadyActive.
type CommitmentStore interface {
	FindCommitment(ctx context.Context, userID uint, practiceID uint, status string) (models.Commitment, bool, error)
	FindCommitmentByID(ctx context.Context, commitmentID uint) (models.Commitment, bool, error)
	CreateCommitment(ctx context.Context, commitment *models.Commitment) error
	UpdateCommitment(ctx context.Context, commitmentID uint, updates map[string]any) (models.Commitment, error)
	ListCommitments(ctx context.Context, userID uint, statuses []string, overlap *DateWindow) ([]models.Commitment, error)

	FindLog(ctx context.Context, commitmentID uint, day time.Time) (models.LogEntry, bool, error)
	UpsertLog(ctx context.Context, commitmentID uint, day time.Time, fields LogFields) (models.LogEntry, error)
	ListLogs(ctx context.Context, commitmentID uint, window DateWindow, order SortOrder) ([]models.LogEntry, error)
	DeleteLog(ctx context.Context, commitmentID uint, day time.Time) (bool, error)

	FindPractice(ctx context.Context, practiceID uint) (models.Practice, bool, error)

	// WithinTransaction runs fn against a store bound to one transaction.
	WithinTransaction(ctx context.Context, fn func(store CommitmentStore) error) error
}

// CommitmentWithPractice is a commitment joined with its practice.
type CommitmentWithPractice struct {
	models.Commitment
	Practice *models.Practice `json:"asceticism"`
}

// CommitmentWithLogs is a listing row: a commitment, its practice and the
// logs inside the requested window, newest first.
type CommitmentWithLogs struct {
	models.Commitment
	Practice *models.Practice `json:"asceticism"`
	Logs     []models.LogEntry `json:"logs"`
}
