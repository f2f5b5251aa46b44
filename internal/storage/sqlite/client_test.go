package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/community-resources/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.InitSchema())
	return client
}

func TestInsertSearchLog(t *testing.T) {
	client := newTestClient(t)

	filters := `{"assistance_types":["Food"],"status_ids":[1]}`
	entry := &models.SearchLogEntry{
		ID:             "search-1",
		Query:          "food pantry open Monday",
		Filters:        &filters,
		Interpretation: "Food resources open Mondays.",
		CreatedAt:      time.Now(),
	}

	require.NoError(t, client.InsertSearchLog(context.Background(), entry))

	var query, storedFilters, interpretation string
	var resultCount *int
	err := client.db.QueryRow(
		`SELECT query, filters, result_count, interpretation FROM search_log WHERE id = ?`,
		"search-1",
	).Scan(&query, &storedFilters, &resultCount, &interpretation)
	require.NoError(t, err)
	assert.Equal(t, "food pantry open Monday", query)
	assert.Equal(t, filters, storedFilters)
	assert.Nil(t, resultCount, "result count is unknown at log time")
}

func TestInsertSearchLog_NullFilters(t *testing.T) {
	client := newTestClient(t)

	entry := &models.SearchLogEntry{
		ID:             "search-2",
		Query:          "asdfghjkl",
		Interpretation: "The query did not describe an assistance need.",
		CreatedAt:      time.Now(),
	}

	require.NoError(t, client.InsertSearchLog(context.Background(), entry))

	var filters *string
	err := client.db.QueryRow(`SELECT filters FROM search_log WHERE id = ?`, "search-2").Scan(&filters)
	require.NoError(t, err)
	assert.Nil(t, filters)
}

func TestInsertUsageEvent(t *testing.T) {
	client := newTestClient(t)

	err := client.InsertUsageEvent(context.Background(), &models.UsageEvent{
		EventType: "pdf_export",
		Detail:    "3 resources",
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, client.db.QueryRow(`SELECT COUNT(*) FROM usage_log WHERE event_type = 'pdf_export'`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestVerifyPasscode(t *testing.T) {
	client := newTestClient(t)

	_, err := client.db.Exec(`INSERT INTO passcodes (code, label, active) VALUES ('abc123', 'Harris County DFPS', 1), ('old999', 'Retired agency', 0)`)
	require.NoError(t, err)

	label, ok, err := client.VerifyPasscode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Harris County DFPS", label)

	_, ok, err = client.VerifyPasscode(context.Background(), "old999")
	require.NoError(t, err)
	assert.False(t, ok, "inactive passcodes are rejected")

	_, ok, err = client.VerifyPasscode(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
