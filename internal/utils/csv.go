package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"tickLabeler/internal/domain"
)

// WriteBarsToCSV persists bars in the fetch_klines exchange format so a
// downloaded series can be fed back in through ReadBarsFromCSV.
func WriteBarsToCSV(bars []domain.Bar, symbol, interval, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"open_time", "close_time", "symbol", "interval", "open", "high", "low", "close", "volume"})

	for _, b := range bars {
		writer.Write([]string{
			time.Unix(0, b.OpenTimeNs).UTC().Format(time.RFC3339Nano),
			time.Unix(0, b.CloseTimeNs).UTC().Format(time.RFC3339Nano),
			symbol,
			interval,
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
	}
	return writer.Error()
}

// ReadBarsFromCSV loads a bar series written by WriteBarsToCSV. The symbol
// and interval columns are carried in the file but not needed here.
func ReadBarsFromCSV(filename string) ([]domain.Bar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	var bars []domain.Bar
	for i, rec := range records {
		if i == 0 && rec[0] == "open_time" {
			continue // header row
		}
		if len(rec) < 9 {
			return nil, fmt.Errorf("%s row %d has %d columns, want 9", filename, i+1, len(rec))
		}
		openTime, err := time.Parse(time.RFC3339Nano, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d open_time: %w", filename, i+1, err)
		}
		closeTime, err := time.Parse(time.RFC3339Nano, rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s row %d close_time: %w", filename, i+1, err)
		}
		var (
			bar  domain.Bar
			errs [5]error
		)
		bar.OpenTimeNs = openTime.UnixNano()
		bar.CloseTimeNs = closeTime.UnixNano()
		bar.Open, errs[0] = strconv.ParseFloat(rec[4], 64)
		bar.High, errs[1] = strconv.ParseFloat(rec[5], 64)
		bar.Low, errs[2] = strconv.ParseFloat(rec[6], 64)
		bar.Close, errs[3] = strconv.ParseFloat(rec[7], 64)
		bar.Volume, errs[4] = strconv.ParseFloat(rec[8], 64)
		for _, perr := range errs {
			if perr != nil {
				return nil, fmt.Errorf("%s row %d: %w", filename, i+1, perr)
			}
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// WriteResultsToCSV exports label results for downstream model training.
func WriteResultsToCSV(results []domain.LabelResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{
		"event_index", "side", "label", "return", "hit_type",
		"entry_time_ns", "exit_time_ns", "entry_price", "exit_price",
		"volatility_used", "ambiguous", "tick_refined",
	})

	for _, res := range results {
		writer.Write([]string{
			strconv.Itoa(res.EventIndex),
			res.Side.String(),
			strconv.Itoa(int(res.Label)),
			strconv.FormatFloat(res.Return, 'f', -1, 64),
			res.HitType.String(),
			strconv.FormatInt(res.EntryTimeNs, 10),
			strconv.FormatInt(res.ExitTimeNs, 10),
			strconv.FormatFloat(res.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(res.ExitPrice, 'f', -1, 64),
			strconv.FormatFloat(res.VolatilityUsed, 'f', -1, 64),
			strconv.FormatBool(res.Ambiguous),
			strconv.FormatBool(res.TickRefined),
		})
	}
	return writer.Error()
}
