package services

import (
	"context"
	"math"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
)

type ProgressStats struct {
	TotalDays      int     `json:"totalDays"`
	CompletedDays  int     `json:"completedDays"`
	CompletionRate float64 `json:"completionRate"`
	CurrentStreak  int     `json:"currentStreak"`
	LongestStreak  int     `json:"longestStreak"`
}

type ProgressLog struct {
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Value     *float64  `json:"value"`
	Notes     *string   `json:"notes"`
}

type CommitmentProgress struct {
	CommitmentID uint                   `json:"userAsceticismId"`
	Practice     models.PracticeSummary `json:"asceticism"`
	StartDate    time.Time              `json:"startDate"`
	Stats        ProgressStats          `json:"stats"`
	Logs         []ProgressLog          `json:"logs"`
}

type ProgressService struct {
	store CommitmentStore
}

func NewProgressService(store CommitmentStore) *ProgressService {
	return &ProgressService{store: store}
}

// TotalDays counts the days of [start, end] inclusively. A reversed window
// yields zero or less.
func TotalDays(start time.Time, end time.Time) int {
	span := EndOfDay(end).Sub(UTCDay(start))
	return int(math.Floor(span.Hours()/24)) + 1
}

// BuildProgressStats derives window statistics from the logs of one commitment.
func BuildProgressStats(logs []models.LogEntry, start time.Time, end time.Time) ProgressStats {
	totalDays := TotalDays(start, end)
	completedDays := CompletedDays(logs)
	return ProgressStats{
		TotalDays:      totalDays,
		CompletedDays:  completedDays,
		CompletionRate: CompletionRate(completedDays, totalDays),
		CurrentStreak:  CurrentStreak(logs),
		LongestStreak:  LongestStreak(logs),
	}
}

// Progress reports statistics for every active commitment of the user over
// the inclusive window [rawStart, rawEnd].
func (service *ProgressService) Progress(ctx context.Context, userID uint, rawStart string, rawEnd string) ([]CommitmentProgress, error) {
	start, err := NormalizeDay(rawStart)
	if err != nil {
		return nil, err
	}
	endDay, err := NormalizeDay(rawEnd)
	if err != nil {
		return nil, err
	}
	end := EndOfDay(endDay)

	commitments, err := service.store.ListCommitments(ctx, userID, []string{models.StatusActive}, nil)
	if err != nil {
		return nil, storeError("list commitments", err)
	}

	window := DateWindow{Start: &start, End: &end}
	result := make([]CommitmentProgress, 0, len(commitments))
	for _, commitment := range commitments {
		practice, found, err := service.store.FindPractice(ctx, commitment.PracticeID)
		if err != nil {
			return nil, storeError("find practice", err)
		}
		if !found {
			continue
		}

		logs, err := service.store.ListLogs(ctx, commitment.ID, window, SortAscending)
		if err != nil {
			return nil, storeError("list logs", err)
		}

		progressLogs := make([]ProgressLog, 0, len(logs))
		for _, entry := range sortedLogs(logs, SortAscending) {
			progressLogs = append(progressLogs, ProgressLog{
				Date:      entry.Date,
				Completed: entry.Completed,
				Value:     entry.Value,
				Notes:     entry.Notes,
			})
		}

		result = append(result, CommitmentProgress{
			CommitmentID: commitment.ID,
			Practice:     practice.Summary(),
			StartDate:    commitment.StartDate,
			Stats:        BuildProgressStats(logs, start, endDay),
			Logs:         progressLogs,
		})
	}
	return result, nil
}
