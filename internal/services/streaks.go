package services

import (
	"math"
	"sort"

	"github.com/terraincognita07/askesis/internal/models"
)

// Streak rules only look at stored rows: a day without a log neither breaks
// nor extends a run. Only an explicit completed=false row resets it.

func CurrentStreak(logs []models.LogEntry) int {
	sorted := sortedLogs(logs, SortDescending)
	streak := 0
	for _, entry := range sorted {
		if !entry.Completed {
			break
		}
		streak++
	}
	return streak
}

func LongestStreak(logs []models.LogEntry) int {
	sorted := sortedLogs(logs, SortAscending)
	longest := 0
	run := 0
	for _, entry := range sorted {
		if !entry.Completed {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

func CompletedDays(logs []models.LogEntry) int {
	count := 0
	for _, entry := range logs {
		if entry.Completed {
			count++
		}
	}
	return count
}

// CompletionRate is completed/total as a percentage rounded to one decimal,
// halves to even. Unlogged days count against the rate.
func CompletionRate(completedDays int, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	rate := float64(completedDays) / float64(totalDays) * 100
	return math.RoundToEven(rate*10) / 10
}

func sortedLogs(logs []models.LogEntry, order SortOrder) []models.LogEntry {
	sorted := make([]models.LogEntry, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortDescending {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
