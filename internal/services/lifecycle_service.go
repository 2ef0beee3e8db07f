package services

import (
	"context"
	"strings"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
)

type JoinInput struct {
	UserID      uint
	PracticeID  uint
	StartDate   *string
	EndDate     *string
	TargetValue *float64
	Metadata    map[string]any
}

// CommitmentPatch is a partial update. A set EndDate or TargetValue holding
// nil clears the stored value; a null or blank StartDate or Status is ignored.
type CommitmentPatch struct {
	StartDate   Optional[string]   `json:"startDate"`
	EndDate     Optional[*string]  `json:"endDate"`
	TargetValue Optional[*float64] `json:"targetValue"`
	Status      Optional[string]   `json:"status"`
}

type JoinOutcome int

const (
	JoinCreated JoinOutcome = iota
	JoinReactivated
)

type LifecycleService struct {
	store CommitmentStore
	clock Clock
}

func NewLifecycleService(store CommitmentStore, clock Clock) *LifecycleService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &LifecycleService{store: store, clock: clock}
}

// bound returns a copy of the service that runs against store, typically
// one already inside a transaction.
func (service *LifecycleService) bound(store CommitmentStore) *LifecycleService {
	return &LifecycleService{store: store, clock: service.clock}
}

func (service *LifecycleService) Join(ctx context.Context, input JoinInput) (CommitmentWithPractice, error) {
	result, _, err := service.JoinWithOutcome(ctx, input)
	return result, err
}

// JoinWithOutcome starts tracking a practice. An archived commitment for the
// same pair is reactivated in place rather than duplicated.
func (service *LifecycleService) JoinWithOutcome(ctx context.Context, input JoinInput) (CommitmentWithPractice, JoinOutcome, error) {
	startDate := UTCDay(service.clock.Now())
	if input.StartDate != nil && strings.TrimSpace(*input.StartDate) != "" {
		parsed, err := NormalizeDay(*input.StartDate)
		if err != nil {
			return CommitmentWithPractice{}, JoinCreated, err
		}
		startDate = parsed
	}

	var endDate *time.Time
	if input.EndDate != nil && strings.TrimSpace(*input.EndDate) != "" {
		parsed, err := NormalizeDay(*input.EndDate)
		if err != nil {
			return CommitmentWithPractice{}, JoinCreated, err
		}
		endDate = &parsed
	}

	var (
		result  CommitmentWithPractice
		outcome JoinOutcome
	)
	err := service.store.WithinTransaction(ctx, func(store CommitmentStore) error {
		practice, found, err := store.FindPractice(ctx, input.PracticeID)
		if err != nil {
			return storeError("find practice", err)
		}
		if !found {
			return ErrPracticeNotFound
		}

		_, active, err := store.FindCommitment(ctx, input.UserID, input.PracticeID, models.StatusActive)
		if err != nil {
			return storeError("find active commitment", err)
		}
		if active {
			return ErrAlreadyActive
		}

		archived, hasArchived, err := store.FindCommitment(ctx, input.UserID, input.PracticeID, models.StatusArchived)
		if err != nil {
			return storeError("find archived commitment", err)
		}

		var commitment models.Commitment
		if hasArchived {
			commitment, err = service.reactivate(ctx, store, archived, startDate, endDate, input.TargetValue)
			outcome = JoinReactivated
		} else {
			commitment, err = service.create(ctx, store, input, startDate, endDate)
			outcome = JoinCreated
		}
		if err != nil {
			return err
		}

		result = CommitmentWithPractice{Commitment: commitment, Practice: &practice}
		return nil
	})
	if err != nil {
		return CommitmentWithPractice{}, outcome, err
	}
	return result, outcome, nil
}

func (service *LifecycleService) reactivate(ctx context.Context, store CommitmentStore, archived models.Commitment, startDate time.Time, endDate *time.Time, targetValue *float64) (models.Commitment, error) {
	updates := map[string]any{
		"status":     models.StatusActive,
		"end_date":   nil,
		"start_date": startDate,
		"updated_at": service.clock.Now(),
	}
	// A stale end date is dropped, not rejected.
	if endDate != nil && !endDate.Before(startDate) {
		updates["end_date"] = *endDate
	}
	if targetValue != nil {
		updates["target_value"] = *targetValue
	}

	commitment, err := store.UpdateCommitment(ctx, archived.ID, updates)
	if err != nil {
		return models.Commitment{}, storeError("reactivate commitment", err)
	}
	return commitment, nil
}

func (service *LifecycleService) create(ctx context.Context, store CommitmentStore, input JoinInput, startDate time.Time, endDate *time.Time) (models.Commitment, error) {
	if endDate != nil && endDate.Before(startDate) {
		return models.Commitment{}, ErrInvalidDateRange
	}

	now := service.clock.Now()
	commitment := models.Commitment{
		UserID:      input.UserID,
		PracticeID:  input.PracticeID,
		Status:      models.StatusActive,
		StartDate:   startDate,
		EndDate:     endDate,
		TargetValue: input.TargetValue,
		Metadata:    input.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateCommitment(ctx, &commitment); err != nil {
		return models.Commitment{}, storeError("create commitment", err)
	}
	return commitment, nil
}

// Leave archives a commitment. Today stays inside the commitment only when
// progress was already recorded for it.
func (service *LifecycleService) Leave(ctx context.Context, commitmentID uint) (models.Commitment, error) {
	var result models.Commitment
	err := service.store.WithinTransaction(ctx, func(store CommitmentStore) error {
		_, found, err := store.FindCommitmentByID(ctx, commitmentID)
		if err != nil {
			return storeError("find commitment", err)
		}
		if !found {
			return ErrNotFound
		}

		now := service.clock.Now()
		today := UTCDay(now)
		_, loggedToday, err := store.FindLog(ctx, commitmentID, today)
		if err != nil {
			return storeError("find today log", err)
		}

		endDate := EndOfDay(today.AddDate(0, 0, -1))
		if loggedToday {
			endDate = EndOfDay(today)
		}

		result, err = store.UpdateCommitment(ctx, commitmentID, map[string]any{
			"status":     models.StatusArchived,
			"end_date":   endDate,
			"updated_at": now,
		})
		if err != nil {
			return storeError("archive commitment", err)
		}
		return nil
	})
	if err != nil {
		return models.Commitment{}, err
	}
	return result, nil
}

// Update applies a patch. A direct status write does not re-check the
// one-active-per-practice rule; the store's unique index still applies.
func (service *LifecycleService) Update(ctx context.Context, commitmentID uint, patch CommitmentPatch) (CommitmentWithPractice, error) {
	updates := map[string]any{}

	var newStart *time.Time
	if raw, ok := patch.StartDate.Get(); ok && strings.TrimSpace(raw) != "" {
		parsed, err := NormalizeDay(raw)
		if err != nil {
			return CommitmentWithPractice{}, err
		}
		newStart = &parsed
		updates["start_date"] = parsed
	}

	endSet := false
	var newEnd *time.Time
	if raw, ok := patch.EndDate.Get(); ok {
		endSet = true
		if raw != nil {
			parsed, err := NormalizeDay(*raw)
			if err != nil {
				return CommitmentWithPractice{}, err
			}
			newEnd = &parsed
			updates["end_date"] = parsed
		} else {
			updates["end_date"] = nil
		}
	}

	if value, ok := patch.TargetValue.Get(); ok {
		if value != nil {
			updates["target_value"] = *value
		} else {
			updates["target_value"] = nil
		}
	}

	if status, ok := patch.Status.Get(); ok && strings.TrimSpace(status) != "" {
		status = strings.ToUpper(strings.TrimSpace(status))
		if !models.IsValidCommitmentStatus(status) {
			return CommitmentWithPractice{}, ErrInvalidStatus
		}
		updates["status"] = status
	}

	var result CommitmentWithPractice
	err := service.store.WithinTransaction(ctx, func(store CommitmentStore) error {
		current, found, err := store.FindCommitmentByID(ctx, commitmentID)
		if err != nil {
			return storeError("find commitment", err)
		}
		if !found {
			return ErrNotFound
		}

		start := current.StartDate
		if newStart != nil {
			start = *newStart
		}
		end := current.EndDate
		if endSet {
			end = newEnd
		}
		datesTouched := newStart != nil || endSet
		if datesTouched && end != nil && end.Before(start) {
			return ErrInvalidDateRange
		}

		updates["updated_at"] = service.clock.Now()
		updated, err := store.UpdateCommitment(ctx, commitmentID, updates)
		if err != nil {
			return storeError("update commitment", err)
		}

		result = CommitmentWithPractice{Commitment: updated}
		practice, found, err := store.FindPractice(ctx, updated.PracticeID)
		if err != nil {
			return storeError("find practice", err)
		}
		if found {
			result.Practice = &practice
		}
		return nil
	})
	if err != nil {
		return CommitmentWithPractice{}, err
	}
	return result, nil
}
