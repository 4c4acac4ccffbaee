package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidsbalance/balance-engine/internal/core/domain"
)

func TestCreateLog(t *testing.T) {
	t.Run("Success: 201 with the frozen snapshot", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		body := `{"activity_id": "` + a.ID + `", "duration_minutes": 45, "notes": "bedtime story", "logged_at": "2026-03-10T15:30:00Z"}`
		w := env.do("POST", "/api/v1/logs", body)

		assert.Equal(t, http.StatusCreated, w.Code)

		var created domain.ActivityLog
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "Reading", created.ActivityName)
		assert.Equal(t, 3.0, created.ActivityCoefficient)
		assert.Equal(t, 135.0, created.QualityScore)
		assert.Equal(t, "child-1", created.UserID)
	})

	t.Run("Fail: 400 for a missing duration", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		body := `{"activity_id": "` + a.ID + `"}`
		w := env.do("POST", "/api/v1/logs", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 for an oversized duration", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		body := `{"activity_id": "` + a.ID + `", "duration_minutes": 481}`
		w := env.do("POST", "/api/v1/logs", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 400 for an archived activity", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Old hobby", domain.CategoryCreative, 2.0)
		a.Archive()

		body := `{"activity_id": "` + a.ID + `", "duration_minutes": 30}`
		w := env.do("POST", "/api/v1/logs", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 403 for another family's activity", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-2", "Foreign", domain.CategoryOther, 1.0)

		body := `{"activity_id": "` + a.ID + `", "duration_minutes": 30}`
		w := env.do("POST", "/api/v1/logs", body)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Fail: 404 for an unknown activity", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)

		body := `{"activity_id": "ghost", "duration_minutes": 30}`
		w := env.do("POST", "/api/v1/logs", body)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdateLog(t *testing.T) {
	loggedAt := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("Success: 200 recomputes quality from the frozen coefficient", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		existing := domain.NewActivityLog(a, "child-1", 45, loggedAt)
		require.NoError(t, env.logRepo.Create(context.Background(), existing))

		body := `{"duration_minutes": 90, "version": 1}`
		w := env.do("PUT", "/api/v1/logs/"+existing.ID, body)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"quality_score":270`)
		assert.Contains(t, w.Body.String(), `"version":2`)
	})

	t.Run("Fail: 400 when version is missing", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		existing := domain.NewActivityLog(a, "child-1", 45, loggedAt)
		require.NoError(t, env.logRepo.Create(context.Background(), existing))

		body := `{"duration_minutes": 90}`
		w := env.do("PUT", "/api/v1/logs/"+existing.ID, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 409 on version conflict", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		existing := domain.NewActivityLog(a, "child-1", 45, loggedAt)
		existing.Version = 3
		require.NoError(t, env.logRepo.Create(context.Background(), existing))

		body := `{"duration_minutes": 90, "version": 2}`
		w := env.do("PUT", "/api/v1/logs/"+existing.ID, body)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail: 403 for someone else's log", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		other := domain.NewActivityLog(a, "child-2", 45, loggedAt)
		require.NoError(t, env.logRepo.Create(context.Background(), other))

		body := `{"duration_minutes": 90, "version": 1}`
		w := env.do("PUT", "/api/v1/logs/"+other.ID, body)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestDeleteLog(t *testing.T) {
	loggedAt := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("Success: 204 soft-deletes the log", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		existing := domain.NewActivityLog(a, "child-1", 45, loggedAt)
		require.NoError(t, env.logRepo.Create(context.Background(), existing))

		w := env.do("DELETE", "/api/v1/logs/"+existing.ID, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do("GET", "/api/v1/logs/"+existing.ID, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 403 for someone else's log", func(t *testing.T) {
		env := setupEnv("child-1", "family-1", domain.RoleChild)
		a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

		other := domain.NewActivityLog(a, "child-2", 45, loggedAt)
		require.NoError(t, env.logRepo.Create(context.Background(), other))

		w := env.do("DELETE", "/api/v1/logs/"+other.ID, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListLogsByRange(t *testing.T) {
	env := setupEnv("child-1", "family-1", domain.RoleChild)
	a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

	inRange := domain.NewActivityLog(a, "child-1", 45, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	outOfRange := domain.NewActivityLog(a, "child-1", 30, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, env.logRepo.Create(context.Background(), inRange))
	require.NoError(t, env.logRepo.Create(context.Background(), outOfRange))

	w := env.do("GET", "/api/v1/logs?from=2026-03-08&to=2026-03-14", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var logs []domain.ActivityLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, inRange.ID, logs[0].ID)

	t.Run("Fail: 400 for a malformed date", func(t *testing.T) {
		w := env.do("GET", "/api/v1/logs?from=tomorrow", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSyncLogs(t *testing.T) {
	env := setupEnv("child-1", "family-1", domain.RoleChild)
	a := seedActivity(t, env, "family-1", "Reading", domain.CategoryEducational, 3.0)

	l := domain.NewActivityLog(a, "child-1", 45, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	require.NoError(t, env.logRepo.Create(context.Background(), l))

	w := env.do("GET", "/api/v1/logs/sync?last_sync=2026-01-01T00:00:00Z", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changes"`)
	assert.Contains(t, w.Body.String(), l.ID)

	t.Run("Fail: 400 for a malformed timestamp", func(t *testing.T) {
		w := env.do("GET", "/api/v1/logs/sync?last_sync=yesterday", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
