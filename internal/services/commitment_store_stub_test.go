package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
)

var errStubStore = errors.New("stub store failure")

type commitmentStoreStub struct {
	commitments map[uint]models.Commitment
	logs        map[uint]map[string]models.LogEntry
	practices   map[uint]models.Practice
	nextID      uint
	nextLogID   uint

	failFindCommitment bool
	failUpsertLog      bool
	upsertCalls        int
	transactions       int
}

func newCommitmentStoreStub() *commitmentStoreStub {
	return &commitmentStoreStub{
		commitments: make(map[uint]models.Commitment),
		logs:        make(map[uint]map[string]models.LogEntry),
		practices:   make(map[uint]models.Practice),
		nextID:      1,
		nextLogID:   1,
	}
}

func (stub *commitmentStoreStub) addPractice(id uint, title string) models.Practice {
	practice := models.Practice{
		ID:         id,
		Title:      title,
		Category:   "prayer",
		Type:       models.TrackingBoolean,
		IsTemplate: true,
	}
	stub.practices[id] = practice
	return practice
}

func (stub *commitmentStoreStub) addCommitment(commitment models.Commitment) models.Commitment {
	commitment.ID = stub.nextID
	stub.nextID++
	stub.commitments[commitment.ID] = commitment
	return commitment
}

func (stub *commitmentStoreStub) addLog(commitmentID uint, day string, completed bool) {
	date := mustParseLogDay(day)
	if stub.logs[commitmentID] == nil {
		stub.logs[commitmentID] = make(map[string]models.LogEntry)
	}
	stub.logs[commitmentID][day] = models.LogEntry{
		ID:           stub.nextLogID,
		CommitmentID: commitmentID,
		Date:         date,
		Completed:    completed,
	}
	stub.nextLogID++
}

func (stub *commitmentStoreStub) dayKey(value time.Time) string {
	return value.UTC().Format("2006-01-02")
}

func (stub *commitmentStoreStub) countWithStatus(userID uint, practiceID uint, status string) int {
	count := 0
	for _, commitment := range stub.commitments {
		if commitment.UserID == userID && commitment.PracticeID == practiceID && commitment.Status == status {
			count++
		}
	}
	return count
}

func (stub *commitmentStoreStub) FindCommitment(_ context.Context, userID uint, practiceID uint, status string) (models.Commitment, bool, error) {
	if stub.failFindCommitment {
		return models.Commitment{}, false, errStubStore
	}
	var (
		match models.Commitment
		found bool
	)
	for _, commitment := range stub.commitments {
		if commitment.UserID != userID || commitment.PracticeID != practiceID || commitment.Status != status {
			continue
		}
		if !found || commitment.ID > match.ID {
			match = commitment
			found = true
		}
	}
	return match, found, nil
}

func (stub *commitmentStoreStub) FindCommitmentByID(_ context.Context, commitmentID uint) (models.Commitment, bool, error) {
	if stub.failFindCommitment {
		return models.Commitment{}, false, errStubStore
	}
	commitment, ok := stub.commitments[commitmentID]
	return commitment, ok, nil
}

func (stub *commitmentStoreStub) CreateCommitment(_ context.Context, commitment *models.Commitment) error {
	if commitment.Status == models.StatusActive && stub.countWithStatus(commitment.UserID, commitment.PracticeID, models.StatusActive) > 0 {
		return ErrAlreadyActive
	}
	commitment.ID = stub.nextID
	stub.nextID++
	stub.commitments[commitment.ID] = *commitment
	return nil
}

func (stub *commitmentStoreStub) UpdateCommitment(_ context.Context, commitmentID uint, updates map[string]any) (models.Commitment, error) {
	commitment, ok := stub.commitments[commitmentID]
	if !ok {
		return models.Commitment{}, errStubStore
	}

	for column, value := range updates {
		switch column {
		case "status":
			status := value.(string)
			if status == models.StatusActive && commitment.Status != models.StatusActive &&
				stub.countWithStatus(commitment.UserID, commitment.PracticeID, models.StatusActive) > 0 {
				return models.Commitment{}, ErrAlreadyActive
			}
			commitment.Status = status
		case "start_date":
			commitment.StartDate = value.(time.Time)
		case "end_date":
			if value == nil {
				commitment.EndDate = nil
			} else {
				end := value.(time.Time)
				commitment.EndDate = &end
			}
		case "target_value":
			if value == nil {
				commitment.TargetValue = nil
			} else {
				target := value.(float64)
				commitment.TargetValue = &target
			}
		case "updated_at":
			commitment.UpdatedAt = value.(time.Time)
		}
	}
	stub.commitments[commitmentID] = commitment
	return commitment, nil
}

func (stub *commitmentStoreStub) ListCommitments(_ context.Context, userID uint, statuses []string, overlap *DateWindow) ([]models.Commitment, error) {
	result := make([]models.Commitment, 0)
	for _, commitment := range stub.commitments {
		if commitment.UserID != userID {
			continue
		}
		allowed := false
		for _, status := range statuses {
			if commitment.Status == status {
				allowed = true
			}
		}
		if !allowed {
			continue
		}
		if overlap != nil {
			if overlap.End != nil && commitment.StartDate.After(*overlap.End) {
				continue
			}
			if overlap.Start != nil && commitment.EndDate != nil && commitment.EndDate.Before(*overlap.Start) {
				continue
			}
		}
		result = append(result, commitment)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (stub *commitmentStoreStub) FindLog(_ context.Context, commitmentID uint, day time.Time) (models.LogEntry, bool, error) {
	entry, ok := stub.logs[commitmentID][stub.dayKey(day)]
	return entry, ok, nil
}

func (stub *commitmentStoreStub) UpsertLog(_ context.Context, commitmentID uint, day time.Time, fields LogFields) (models.LogEntry, error) {
	stub.upsertCalls++
	if stub.failUpsertLog {
		return models.LogEntry{}, errStubStore
	}
	if stub.logs[commitmentID] == nil {
		stub.logs[commitmentID] = make(map[string]models.LogEntry)
	}

	key := stub.dayKey(day)
	entry, ok := stub.logs[commitmentID][key]
	if !ok {
		entry = models.LogEntry{ID: stub.nextLogID, CommitmentID: commitmentID, Date: day}
		stub.nextLogID++
	}
	entry.Completed = fields.Completed
	if fields.Value != nil {
		entry.Value = fields.Value
	}
	if fields.Notes != nil {
		entry.Notes = fields.Notes
	}
	if fields.Metadata != nil {
		entry.Metadata = fields.Metadata
	}
	stub.logs[commitmentID][key] = entry
	return entry, nil
}

func (stub *commitmentStoreStub) ListLogs(_ context.Context, commitmentID uint, window DateWindow, order SortOrder) ([]models.LogEntry, error) {
	result := make([]models.LogEntry, 0)
	for _, entry := range stub.logs[commitmentID] {
		if window.Start != nil && entry.Date.Before(*window.Start) {
			continue
		}
		if window.End != nil && entry.Date.After(*window.End) {
			continue
		}
		result = append(result, entry)
	}
	return sortedLogs(result, order), nil
}

func (stub *commitmentStoreStub) DeleteLog(_ context.Context, commitmentID uint, day time.Time) (bool, error) {
	key := stub.dayKey(day)
	if _, ok := stub.logs[commitmentID][key]; !ok {
		return false, nil
	}
	delete(stub.logs[commitmentID], key)
	return true, nil
}

func (stub *commitmentStoreStub) FindPractice(_ context.Context, practiceID uint) (models.Practice, bool, error) {
	practice, ok := stub.practices[practiceID]
	return practice, ok, nil
}

func (stub *commitmentStoreStub) WithinTransaction(_ context.Context, fn func(store CommitmentStore) error) error {
	stub.transactions++
	return fn(stub)
}

func mustParseLogDay(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}

func mustParseInstant(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return parsed
}

func stringPtr(value string) *string {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func decodeJSON(raw string, target any) error {
	return json.Unmarshal([]byte(raw), target)
}
