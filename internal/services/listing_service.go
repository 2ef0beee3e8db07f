package services

import (
	"context"
	"strings"

	"github.com/terraincognita07/askesis/internal/models"
)

// WindowInput is a raw, optionally bounded query window.
type WindowInput struct {
	Start *string
	End   *string
}

type ListingService struct {
	store CommitmentStore
}

func NewListingService(store CommitmentStore) *ListingService {
	return &ListingService{store: store}
}

// ParseWindow normalizes a raw window. The end bound is widened to the end of
// its day so both endpoints are inclusive.
func ParseWindow(input WindowInput) (DateWindow, error) {
	window := DateWindow{}
	if input.Start != nil && strings.TrimSpace(*input.Start) != "" {
		start, err := NormalizeDay(*input.Start)
		if err != nil {
			return DateWindow{}, err
		}
		window.Start = &start
	}
	if input.End != nil && strings.TrimSpace(*input.End) != "" {
		endDay, err := NormalizeDay(*input.End)
		if err != nil {
			return DateWindow{}, err
		}
		end := EndOfDay(endDay)
		window.End = &end
	}
	return window, nil
}

func statusesFor(includeArchived bool) []string {
	if includeArchived {
		return []string{models.StatusActive, models.StatusArchived}
	}
	return []string{models.StatusActive}
}

// ListForUser returns the user's commitments overlapping the window, each with
// its practice and its in-window logs newest first.
func (service *ListingService) ListForUser(ctx context.Context, userID uint, input WindowInput, includeArchived bool) ([]CommitmentWithLogs, error) {
	window, err := ParseWindow(input)
	if err != nil {
		return nil, err
	}

	var overlap *DateWindow
	if !window.IsOpen() {
		overlap = &window
	}

	commitments, err := service.store.ListCommitments(ctx, userID, statusesFor(includeArchived), overlap)
	if err != nil {
		return nil, storeError("list commitments", err)
	}

	practices := make(map[uint]*models.Practice)
	result := make([]CommitmentWithLogs, 0, len(commitments))
	for _, commitment := range commitments {
		practice, cached := practices[commitment.PracticeID]
		if !cached {
			loaded, found, err := service.store.FindPractice(ctx, commitment.PracticeID)
			if err != nil {
				return nil, storeError("find practice", err)
			}
			if found {
				practice = &loaded
			}
			practices[commitment.PracticeID] = practice
		}

		logs, err := service.store.ListLogs(ctx, commitment.ID, window, SortDescending)
		if err != nil {
			return nil, storeError("list logs", err)
		}

		result = append(result, CommitmentWithLogs{
			Commitment: commitment,
			Practice:   practice,
			Logs:       logs,
		})
	}
	return result, nil
}
