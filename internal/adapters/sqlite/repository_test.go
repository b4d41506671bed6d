package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tickLabeler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "labeler-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}
	return repo, cleanup
}

func sampleResults() []domain.LabelResult {
	return []domain.LabelResult{
		{
			EventIndex:     10,
			Side:           domain.SideLong,
			Return:         0.002,
			Label:          1,
			EntryTimeNs:    1_700_000_000_000_000_000,
			ExitTimeNs:     1_700_000_060_000_000_000,
			EntryPrice:     1.1000,
			ExitPrice:      1.1022,
			HitType:        domain.HitTakeProfit,
			VolatilityUsed: 0.0011,
		},
		{
			EventIndex:     20,
			Side:           domain.SideShort,
			Return:         -0.0015,
			Label:          -1,
			EntryTimeNs:    1_700_000_120_000_000_000,
			ExitTimeNs:     1_700_000_240_000_000_000,
			EntryPrice:     1.1010,
			ExitPrice:      1.1027,
			HitType:        domain.HitStopLoss,
			VolatilityUsed: 0.0011,
			Ambiguous:      true,
			TickRefined:    true,
		},
		{
			EventIndex:     30,
			Side:           domain.SideBoth,
			Return:         0,
			Label:          0,
			EntryTimeNs:    1_700_000_300_000_000_000,
			ExitTimeNs:     1_700_000_900_000_000_000,
			EntryPrice:     1.1005,
			ExitPrice:      1.1006,
			HitType:        domain.HitTimeout,
			VolatilityUsed: 0.001,
		},
	}
}

func TestRepository_SaveAndFindResults(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, "run-1", `{"tp_vol_multiple":2}`, `{"total_events":3}`))

	want := sampleResults()
	require.NoError(t, repo.SaveResults(ctx, "run-1", want))

	got, err := repo.FindResults(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, want, got, "results round-trip byte-identically, ordered by event index")
}

func TestRepository_ResultsAreWriteOnce(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	results := sampleResults()[:1]
	require.NoError(t, repo.SaveResults(ctx, "run-1", results))

	err := repo.SaveResults(ctx, "run-1", results)
	assert.Error(t, err, "duplicate (run, event) inserts must be rejected")
}

func TestRepository_FindResultsUnknownRun(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	got, err := repo.FindResults(context.Background(), "no-such-run")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepository_DuplicateRunRejected(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, "run-1", "{}", "{}"))
	assert.Error(t, repo.SaveRun(ctx, "run-1", "{}", "{}"))
}
