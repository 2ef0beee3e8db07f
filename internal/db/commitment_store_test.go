package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/services"
	"gorm.io/gorm"
)

func openStoreTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	return openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "askesis-store.db"))
}

func seedUserAndPractice(t *testing.T, database *gorm.DB, email string) (models.User, models.Practice) {
	t.Helper()

	user := models.User{Email: email, Role: models.RoleUser, CreatedAt: time.Now().UTC()}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	practice := models.Practice{Title: "Cold shower", Category: "body", Type: models.TrackingBoolean, IsTemplate: true}
	if err := database.Create(&practice).Error; err != nil {
		t.Fatalf("create practice: %v", err)
	}
	return user, practice
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		t.Fatalf("parse day %q: %v", raw, err)
	}
	return parsed
}

func TestCommitmentStoreRejectsSecondActiveCommitment(t *testing.T) {
	database := openStoreTestDatabase(t)
	store := NewCommitmentStore(database)
	ctx := context.Background()
	user, practice := seedUserAndPractice(t, database, "one@askesis.local")

	first := models.Commitment{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusActive, StartDate: mustDay(t, "2025-01-01")}
	if err := store.CreateCommitment(ctx, &first); err != nil {
		t.Fatalf("create first commitment: %v", err)
	}

	second := models.Commitment{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusActive, StartDate: mustDay(t, "2025-01-02")}
	if err := store.CreateCommitment(ctx, &second); !errors.Is(err, services.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive, got %v", err)
	}

	archived := models.Commitment{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusArchived, StartDate: mustDay(t, "2024-06-01")}
	if err := store.CreateCommitment(ctx, &archived); err != nil {
		t.Fatalf("expected archived row alongside active one, got %v", err)
	}

	if _, err := store.UpdateCommitment(ctx, archived.ID, map[string]any{"status": models.StatusActive}); !errors.Is(err, services.ErrAlreadyActive) {
		t.Fatalf("expected ErrAlreadyActive on status update, got %v", err)
	}
}

func TestCommitmentStoreUpsertLogKeepsOneRowPerDay(t *testing.T) {
	database := openStoreTestDatabase(t)
	store := NewCommitmentStore(database)
	ctx := context.Background()
	user, practice := seedUserAndPractice(t, database, "upsert@askesis.local")

	commitment := models.Commitment{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusActive, StartDate: mustDay(t, "2025-01-01")}
	if err := store.CreateCommitment(ctx, &commitment); err != nil {
		t.Fatalf("create commitment: %v", err)
	}

	value := 12.5
	notes := "first"
	first, err := store.UpsertLog(ctx, commitment.ID, mustDay(t, "2025-01-03"), services.LogFields{
		Completed: true,
		Value:     &value,
		Notes:     &notes,
		Metadata:  map[string]any{"mood": "calm"},
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !first.Completed || first.Value == nil || *first.Value != 12.5 {
		t.Fatalf("unexpected first log %+v", first)
	}

	second, err := store.UpsertLog(ctx, commitment.ID, mustDay(t, "2025-01-03").Add(15*time.Hour), services.LogFields{Completed: false})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same row id %d, got %d", first.ID, second.ID)
	}
	if second.Completed {
		t.Fatal("expected completed to be overwritten with false")
	}
	if second.Notes == nil || *second.Notes != "first" {
		t.Fatalf("expected untouched notes to survive, got %v", second.Notes)
	}
	if second.Metadata["mood"] != "calm" {
		t.Fatalf("expected untouched metadata to survive, got %v", second.Metadata)
	}

	var count int64
	if err := database.Model(&models.LogEntry{}).Where("commitment_id = ?", commitment.ID).Count(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one log row, got %d", count)
	}

	deleted, err := store.DeleteLog(ctx, commitment.ID, mustDay(t, "2025-01-03"))
	if err != nil {
		t.Fatalf("delete log: %v", err)
	}
	if !deleted {
		t.Fatal("expected log to be deleted")
	}
	deleted, err = store.DeleteLog(ctx, commitment.ID, mustDay(t, "2025-01-03"))
	if err != nil {
		t.Fatalf("delete missing log: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report nothing removed")
	}
}

func TestCommitmentStoreListLogsHonoursWindowAndOrder(t *testing.T) {
	database := openStoreTestDatabase(t)
	store := NewCommitmentStore(database)
	ctx := context.Background()
	user, practice := seedUserAndPractice(t, database, "logs@askesis.local")

	commitment := models.Commitment{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusActive, StartDate: mustDay(t, "2025-01-01")}
	if err := store.CreateCommitment(ctx, &commitment); err != nil {
		t.Fatalf("create commitment: %v", err)
	}
	for _, day := range []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04"} {
		if _, err := store.UpsertLog(ctx, commitment.ID, mustDay(t, day), services.LogFields{Completed: true}); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}

	start := mustDay(t, "2025-01-02")
	end := services.EndOfDay(mustDay(t, "2025-01-03"))
	logs, err := store.ListLogs(ctx, commitment.ID, services.DateWindow{Start: &start, End: &end}, services.SortDescending)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs in window, got %d", len(logs))
	}
	if services.FormatDay(logs[0].Date) != "2025-01-03" || services.FormatDay(logs[1].Date) != "2025-01-02" {
		t.Fatalf("expected newest first, got %s then %s", services.FormatDay(logs[0].Date), services.FormatDay(logs[1].Date))
	}
}

func TestCommitmentStoreListCommitmentsFiltersByOverlap(t *testing.T) {
	database := openStoreTestDatabase(t)
	store := NewCommitmentStore(database)
	ctx := context.Background()
	user, practice := seedUserAndPractice(t, database, "overlap@askesis.local")

	other := models.Practice{Title: "Fasting", Category: "food", Type: models.TrackingBoolean, IsTemplate: true}
	if err := database.Create(&other).Error; err != nil {
		t.Fatalf("create practice: %v", err)
	}
	third := models.Practice{Title: "Silence", Category: "mind", Type: models.TrackingBoolean, IsTemplate: true}
	if err := database.Create(&third).Error; err != nil {
		t.Fatalf("create practice: %v", err)
	}

	endedEarly := services.EndOfDay(mustDay(t, "2024-12-20"))
	rows := []models.Commitment{
		{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusActive, StartDate: mustDay(t, "2024-12-01")},
		{UserID: user.ID, PracticeID: other.ID, Status: models.StatusArchived, StartDate: mustDay(t, "2024-12-01"), EndDate: &endedEarly},
		{UserID: user.ID, PracticeID: third.ID, Status: models.StatusActive, StartDate: mustDay(t, "2025-01-10")},
	}
	for index := range rows {
		if err := store.CreateCommitment(ctx, &rows[index]); err != nil {
			t.Fatalf("create commitment %d: %v", index, err)
		}
	}

	start := mustDay(t, "2025-01-01")
	end := services.EndOfDay(mustDay(t, "2025-01-05"))
	listed, err := store.ListCommitments(ctx, user.ID, []string{models.StatusActive, models.StatusArchived}, &services.DateWindow{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("list commitments: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != rows[0].ID {
		t.Fatalf("expected only the open-ended commitment, got %+v", listed)
	}

	all, err := store.ListCommitments(ctx, user.ID, []string{models.StatusActive}, nil)
	if err != nil {
		t.Fatalf("list active commitments: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 active commitments, got %d", len(all))
	}
}

func TestCommitmentStoreTransactionRollsBack(t *testing.T) {
	database := openStoreTestDatabase(t)
	store := NewCommitmentStore(database)
	ctx := context.Background()
	user, practice := seedUserAndPractice(t, database, "tx@askesis.local")

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(tx services.CommitmentStore) error {
		commitment := models.Commitment{UserID: user.ID, PracticeID: practice.ID, Status: models.StatusActive, StartDate: mustDay(t, "2025-01-01")}
		if err := tx.CreateCommitment(ctx, &commitment); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_, found, err := store.FindCommitment(ctx, user.ID, practice.ID, models.StatusActive)
	if err != nil {
		t.Fatalf("find commitment: %v", err)
	}
	if found {
		t.Fatal("expected rolled back commitment to be absent")
	}
}

func TestLifecycleOverGormStoreReactivatesArchivedCommitment(t *testing.T) {
	database := openStoreTestDatabase(t)
	store := NewCommitmentStore(database)
	ctx := context.Background()
	user, practice := seedUserAndPractice(t, database, "lifecycle@askesis.local")

	lifecycle := services.NewLifecycleService(store, services.FixedClock{At: time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)})
	start := "2025-02-01"
	joined, err := lifecycle.Join(ctx, services.JoinInput{UserID: user.ID, PracticeID: practice.ID, StartDate: &start})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := lifecycle.Leave(ctx, joined.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}

	rejoined, err := lifecycle.Join(ctx, services.JoinInput{UserID: user.ID, PracticeID: practice.ID})
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if rejoined.ID != joined.ID {
		t.Fatalf("expected reactivation of row %d, got %d", joined.ID, rejoined.ID)
	}
	if rejoined.Status != models.StatusActive || rejoined.EndDate != nil {
		t.Fatalf("expected active open-ended commitment, got status=%s end=%v", rejoined.Status, rejoined.EndDate)
	}
	if services.FormatDay(rejoined.StartDate) != "2025-02-10" {
		t.Fatalf("expected start date reset to today, got %s", services.FormatDay(rejoined.StartDate))
	}
}
