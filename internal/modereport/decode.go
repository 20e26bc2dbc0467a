package modereport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"storebot/internal/domain"
)

// Column names the warehouse query is expected to produce. Matching is
// case-insensitive; optional columns may be absent entirely.
const (
	colStoreID         = "store_id"
	colBusinessID      = "business_id"
	colBusinessName    = "business_name"
	colBusinessLine    = "cng_business_line"
	colPickModel       = "pick_model"
	colImageURL        = "image_url"
	colStoreHours      = "store_hours"
	colImageConfidence = "image_confidence"
	colObservedAt      = "cancellation_date_utc"
)

var observedAtLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// DecodeObservations parses the raw result CSV into observations.
// Rows with no store ID or no image URL are dropped with a log line;
// a missing required header is a hard error.
func DecodeObservations(data []byte) ([]domain.StoreObservation, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading result header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colStoreID, colImageURL} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("result CSV missing required column %s", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var out []domain.StoreObservation
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading result row %d: %w", line, err)
		}

		obs := domain.StoreObservation{
			StoreID:      field(record, colStoreID),
			BusinessID:   field(record, colBusinessID),
			BusinessName: field(record, colBusinessName),
			BusinessLine: field(record, colBusinessLine),
			PickModel:    field(record, colPickModel),
			ImageURL:     field(record, colImageURL),
			StoreHours:   field(record, colStoreHours),
		}
		if obs.StoreID == "" || obs.ImageURL == "" {
			log.Printf("mode decode skipped row=%d store=%q (missing id or image)", line, obs.StoreID)
			continue
		}

		// Confidence defaults to fully trusted when the column is
		// absent or unparseable.
		obs.ImageConfidence = 1.0
		if raw := field(record, colImageConfidence); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				obs.ImageConfidence = v
			}
		}

		if raw := field(record, colObservedAt); raw != "" {
			for _, layout := range observedAtLayouts {
				if t, err := time.Parse(layout, raw); err == nil {
					obs.ObservedAt = t
					break
				}
			}
		}

		out = append(out, obs)
	}
	return out, nil
}
