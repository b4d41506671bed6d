package tickcsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tickLabeler/internal/domain"
	"tickLabeler/internal/ports"
)

// Store implements ports.TickSliceProvider over a directory of per-event
// CSV files named ticks_event_000123.csv with columns ts_ns,bid,ask. This
// is the file-drop exchange format of the upstream tick exporter.
type Store struct {
	dir    string
	logger ports.Logger
}

// NewStore validates the slice directory and creates a Store.
func NewStore(dir string, logger ports.Logger) (*Store, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for tick CSV store")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: tick slice directory %q: %v", ports.ErrTickStoreUnavailable, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ports.ErrTickStoreUnavailable, dir)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// SliceForEvent reads the event's slice file and returns the ticks within
// [fromNs, toNs]. A missing file yields ErrTickSliceUnavailable so the
// caller falls back to the bar-level result.
func (s *Store) SliceForEvent(ctx context.Context, eventIndex int, fromNs, toNs int64) (domain.TickSlice, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("ticks_event_%06d.csv", eventIndex))
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no slice file for event %d", ports.ErrTickSliceUnavailable, eventIndex)
		}
		return nil, fmt.Errorf("%w: opening %s: %v", ports.ErrTickSliceUnavailable, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ports.ErrMalformedTickData, path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var slice domain.TickSlice
	var prevTs int64
	for i, rec := range records {
		if i == 0 && rec[0] == "ts_ns" {
			continue // header row
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, want 3", ports.ErrMalformedTickData, path, i+1, len(rec))
		}
		tsNs, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d ts_ns: %v", ports.ErrMalformedTickData, path, i+1, err)
		}
		bid, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d bid: %v", ports.ErrMalformedTickData, path, i+1, err)
		}
		ask, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d ask: %v", ports.ErrMalformedTickData, path, i+1, err)
		}
		if tsNs < prevTs {
			return nil, fmt.Errorf("%w: %s row %d out of timestamp order", ports.ErrMalformedTickData, path, i+1)
		}
		prevTs = tsNs
		if tsNs < fromNs || tsNs > toNs {
			continue
		}
		slice = append(slice, domain.Tick{TsNs: tsNs, Bid: bid, Ask: ask})
	}
	return slice, nil
}
