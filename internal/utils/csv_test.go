package utils

import (
	"os"
	"path/filepath"
	"testing"

	"tickLabeler/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsCSVRoundTrip(t *testing.T) {
	bars := []domain.Bar{
		{OpenTimeNs: 1_700_000_000_000_000_000, CloseTimeNs: 1_700_000_059_999_000_000,
			Open: 1.1000, High: 1.1010, Low: 1.0995, Close: 1.1005, Volume: 123.45},
		{OpenTimeNs: 1_700_000_060_000_000_000, CloseTimeNs: 1_700_000_119_999_000_000,
			Open: 1.1005, High: 1.1020, Low: 1.1001, Close: 1.1018, Volume: 98.7},
	}

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, WriteBarsToCSV(bars, "EURUSD", "1m", path))

	got, err := ReadBarsFromCSV(path)
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestReadBarsFromCSV_BadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	content := "open_time,close_time,symbol,interval,open,high,low,close,volume\n" +
		"2023-11-14T22:13:20Z,2023-11-14T22:14:19Z,EURUSD,1m,oops,1.1,1.0,1.05,10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := ReadBarsFromCSV(path)
	assert.Error(t, err)
}
