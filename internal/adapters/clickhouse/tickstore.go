package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tickLabeler/internal/domain"
	"tickLabeler/internal/ports"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"
)

const defaultQueryTimeout = 5 * time.Second

// TickStore implements ports.TickSliceProvider over a ClickHouse ticks
// table with Decimal(18,8) bid/ask columns. Every query runs under a short
// timeout so a slow store degrades to "slice unavailable" instead of
// stalling a labeling worker.
type TickStore struct {
	conn         driver.Conn
	table        string
	logger       ports.Logger
	queryTimeout time.Duration
}

// Config holds connection settings for the ClickHouse tick store.
type Config struct {
	Addr         []string // host:port list, e.g. ["localhost:9000"]
	Database     string
	Username     string
	Password     string
	Table        string        // ticks table, defaults to "ticks"
	QueryTimeout time.Duration // per-slice budget, defaults to 5s
	Logger       ports.Logger
}

// NewTickStore opens a native-protocol connection and verifies it with a
// ping.
func NewTickStore(cfg Config) (*TickStore, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for ClickHouse tick store")
	}
	if len(cfg.Addr) == 0 {
		return nil, fmt.Errorf("%w: ClickHouse address is required", ports.ErrConfigurationError)
	}
	table := cfg.Table
	if table == "" {
		table = "ticks"
	}
	timeout := cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.Addr,
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: timeout,
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening ClickHouse connection: %v", ports.ErrTickStoreUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: pinging ClickHouse: %v", ports.ErrTickStoreUnavailable, err)
	}

	cfg.Logger.Info(context.Background(), "ClickHouse tick store connected", map[string]interface{}{
		"addr": cfg.Addr, "table": table})

	return &TickStore{conn: conn, table: table, logger: cfg.Logger, queryTimeout: timeout}, nil
}

// SliceForEvent fetches the ticks in [fromNs, toNs], ordered by timestamp.
// The eventIndex only identifies the caller in logs; the window alone
// selects the data.
func (s *TickStore) SliceForEvent(ctx context.Context, eventIndex int, fromNs, toNs int64) (domain.TickSlice, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	query := fmt.Sprintf(
		"SELECT ts_ns, bid, ask FROM %s WHERE ts_ns >= ? AND ts_ns <= ? ORDER BY ts_ns", s.table)
	rows, err := s.conn.Query(qctx, query, fromNs, toNs)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn(ctx, "Tick slice query timed out", map[string]interface{}{
				"eventIndex": eventIndex, "timeout": s.queryTimeout.String()})
			return nil, fmt.Errorf("%w: %v", ports.ErrTickSliceUnavailable, ports.ErrTimeout)
		}
		return nil, fmt.Errorf("%w: querying ticks for event %d: %v", ports.ErrTickSliceUnavailable, eventIndex, err)
	}
	defer rows.Close()

	var slice domain.TickSlice
	for rows.Next() {
		var (
			tsNs int64
			bid  decimal.Decimal
			ask  decimal.Decimal
		)
		if err := rows.Scan(&tsNs, &bid, &ask); err != nil {
			return nil, fmt.Errorf("%w: scanning tick row for event %d: %v", ports.ErrMalformedTickData, eventIndex, err)
		}
		slice = append(slice, domain.Tick{TsNs: tsNs, Bid: bid.InexactFloat64(), Ask: ask.InexactFloat64()})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ticks for event %d: %v", ports.ErrTickSliceUnavailable, eventIndex, err)
	}
	return slice, nil
}

// Close releases the connection pool.
func (s *TickStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
