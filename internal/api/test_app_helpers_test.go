package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/askesis/internal/db"
	"github.com/terraincognita07/askesis/internal/logger"
	"github.com/terraincognita07/askesis/internal/models"
	"github.com/terraincognita07/askesis/internal/security"
	"gorm.io/gorm"
)

const testAuthSecret = "askesis-test-secret-with-plenty-of-length"

type testEnv struct {
	app        *fiber.App
	database   *gorm.DB
	signingKey []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "askesis-api.db"), logger.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	signingKey, err := security.DeriveSigningKey(testAuthSecret)
	if err != nil {
		t.Fatalf("derive signing key: %v", err)
	}
	handler, err := NewHandler(database, signingKey, logger.NewNop())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}

	return &testEnv{
		app:        NewApp(handler, AppConfig{MetricsEnabled: true}),
		database:   database,
		signingKey: signingKey,
	}
}

func (env *testEnv) token(t *testing.T, email string) string {
	t.Helper()

	raw, err := security.IssueToken(env.signingKey, email, "", time.Now().UTC(), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

func (env *testEnv) createUser(t *testing.T, email string, role string) models.User {
	t.Helper()

	user := models.User{Email: email, Role: role, CreatedAt: time.Now().UTC()}
	if err := env.database.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func (env *testEnv) createTemplate(t *testing.T, title string, category string) models.Practice {
	t.Helper()

	practice := models.Practice{Title: title, Category: category, Type: models.TrackingBoolean, IsTemplate: true}
	if err := env.database.Create(&practice).Error; err != nil {
		t.Fatalf("create template %s: %v", title, err)
	}
	return practice
}

func (env *testEnv) do(t *testing.T, method string, path string, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return response.StatusCode, payload
}

func (env *testEnv) expect(t *testing.T, method string, path string, token string, body any, expectedStatus int) []byte {
	t.Helper()

	status, payload := env.do(t, method, path, token, body)
	if status != expectedStatus {
		t.Fatalf("%s %s expected status %d, got %d: %s", method, path, expectedStatus, status, string(payload))
	}
	return payload
}

func decodeInto[T any](t *testing.T, payload []byte) T {
	t.Helper()

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		t.Fatalf("decode %s: %v", string(payload), err)
	}
	return value
}

func readErrorMessage(t *testing.T, payload []byte) string {
	t.Helper()
	return decodeInto[map[string]string](t, payload)["error"]
}

