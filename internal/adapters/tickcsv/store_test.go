package tickcsv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"tickLabeler/internal/domain"
	"tickLabeler/internal/ports"

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

func writeSlice(t *testing.T, dir string, eventIndex int, content string) {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("ticks_event_%06d.csv", eventIndex))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestStore_SliceForEvent(t *testing.T) {
	dir := t.TempDir()
	writeSlice(t, dir, 7, "ts_ns,bid,ask\n100,1.1000,1.1002\n200,1.1001,1.1003\n300,1.1002,1.1004\n")

	store, err := NewStore(dir, &mockLogger{})
	require.NoError(t, err)

	slice, err := store.SliceForEvent(context.Background(), 7, 150, 300)
	require.NoError(t, err)
	require.Len(t, slice, 2, "ticks outside the window are filtered out")
	assert.Equal(t, domain.Tick{TsNs: 200, Bid: 1.1001, Ask: 1.1003}, slice[0])
	assert.Equal(t, domain.Tick{TsNs: 300, Bid: 1.1002, Ask: 1.1004}, slice[1])
}

func TestStore_MissingSliceIsUnavailable(t *testing.T) {
	store, err := NewStore(t.TempDir(), &mockLogger{})
	require.NoError(t, err)

	_, err = store.SliceForEvent(context.Background(), 42, 0, 100)
	assert.ErrorIs(t, err, ports.ErrTickSliceUnavailable)
}

func TestStore_MalformedSlice(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, &mockLogger{})
	require.NoError(t, err)

	tests := []struct {
		name       string
		eventIndex int
		content    string
	}{
		{"bad timestamp", 1, "ts_ns,bid,ask\nnope,1.0,1.1\n"},
		{"bad price", 2, "ts_ns,bid,ask\n100,one,1.1\n"},
		{"out of order", 3, "ts_ns,bid,ask\n200,1.0,1.1\n100,1.0,1.1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeSlice(t, dir, tt.eventIndex, tt.content)
			_, err := store.SliceForEvent(context.Background(), tt.eventIndex, 0, 1_000)
			assert.ErrorIs(t, err, ports.ErrMalformedTickData)
		})
	}
}

func TestNewStore_MissingDirectory(t *testing.T) {
	_, err := NewStore(filepath.Join(t.TempDir(), "does-not-exist"), &mockLogger{})
	assert.ErrorIs(t, err, ports.ErrTickStoreUnavailable)
}
