// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poster-atlas/posteratlas/internal/logging"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// expectedHeader is the required CSV column layout.
var expectedHeader = []string{"prefecture", "city", "number", "name", "address", "lat", "long"}

// Record is one parsed CSV row with the prefecture already normalized to
// its romaji identifier.
type Record struct {
	Prefecture string
	City       string
	Number     string
	Name       string
	Address    string
	Lat        *float64
	Long       *float64
}

// Key is the natural identity of a board within an import run.
func (r *Record) Key() string {
	return r.Prefecture + "/" + r.City + "/" + r.Number
}

// Board converts the record into a board ready for upserting.
func (r *Record) Board() *models.Board {
	return &models.Board{
		Prefecture: r.Prefecture,
		City:       r.City,
		Number:     r.Number,
		Name:       r.Name,
		Address:    r.Address,
		Lat:        r.Lat,
		Long:       r.Long,
		Status:     models.StatusNotYet,
	}
}

// ParseCSV reads board records from r.
//
// The header must match expectedHeader exactly. An unknown prefecture or
// a duplicate (prefecture, city, number) key fails the whole parse: both
// indicate a broken source file, and a partial import would leave the
// board set silently inconsistent. Rows with malformed coordinates are
// logged and skipped; coordinates may also be legitimately empty for
// boards that have not been surveyed yet.
func ParseCSV(r io.Reader, source string) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var records []Record
	seen := make(map[string]int)
	line := 1

	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, line, err)
		}

		prefecture, ok := NormalizePrefecture(row[0])
		if !ok {
			return nil, fmt.Errorf("%s line %d: unknown prefecture %q", source, line, row[0])
		}

		rec := Record{
			Prefecture: prefecture,
			City:       strings.TrimSpace(row[1]),
			Number:     strings.TrimSpace(row[2]),
			Name:       strings.TrimSpace(row[3]),
			Address:    strings.TrimSpace(row[4]),
		}
		if rec.City == "" || rec.Number == "" {
			return nil, fmt.Errorf("%s line %d: city and number are required", source, line)
		}

		rec.Lat, err = parseCoordinate(row[5])
		if err != nil {
			logging.Warn().Str("source", source).Int("line", line).Err(err).
				Msg("Skipping row with malformed latitude")
			continue
		}
		rec.Long, err = parseCoordinate(row[6])
		if err != nil {
			logging.Warn().Str("source", source).Int("line", line).Err(err).
				Msg("Skipping row with malformed longitude")
			continue
		}

		if prev, dup := seen[rec.Key()]; dup {
			return nil, fmt.Errorf("%s line %d: duplicate board %s (first seen at line %d)",
				source, line, rec.Key(), prev)
		}
		seen[rec.Key()] = line

		records = append(records, rec)
	}

	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("expected %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, want := range expectedHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return fmt.Errorf("column %d must be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}

// parseCoordinate returns nil for empty values; boards without survey
// coordinates are valid, they just stay off the map.
func parseCoordinate(s string) (*float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
