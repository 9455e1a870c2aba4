package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	// The feed publishes "Date/Time Updated" in Pacific local time; embed
	// tzdata so parsing works on hosts without a system zone database.
	_ "time/tzdata"

	"github.com/maloquacious/wastewater/internal/models"
)

// Column headers as published in the DOH download.
const (
	colCollectionDate = "Sample Collection Date"
	colSiteName       = "Site Name"
	colCounty         = "County"
	colPathogenTarget = "PCR Pathogen Target"
	colGeneTarget     = "PCR Gene Target"
	colConcentration  = "Normalized Pathogen Concentration (gene copies/person/day)"
	colDateUpdated    = "Date/Time Updated"
)

var requiredColumns = []string{
	colCollectionDate,
	colSiteName,
	colCounty,
	colPathogenTarget,
	colGeneTarget,
	colConcentration,
	colDateUpdated,
}

const updatedAtLayout = "2006-01-02 15:04:05.999999999"

var pacificZone = sync.OnceValues(func() (*time.Location, error) {
	return time.LoadLocation("America/Los_Angeles")
})

// ParseRecords reads the CSV feed, mapping columns by header name so the
// published column order can change without breaking the collector.
// Malformed rows are skipped and counted rather than failing the batch.
func ParseRecords(r io.Reader) ([]models.Record, int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read feed header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("feed is missing column %q", name)
		}
	}

	records := make([]models.Record, 0)
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("read feed row: %w", err)
		}

		rec, err := parseRow(row, cols)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func parseRow(row []string, cols map[string]int) (models.Record, error) {
	var rec models.Record
	var err error

	rec.CollectionDate, err = time.Parse(time.DateOnly, row[cols[colCollectionDate]])
	if err != nil {
		return rec, fmt.Errorf("invalid collection date: %w", err)
	}

	rec.SiteName = row[cols[colSiteName]]
	rec.County = row[cols[colCounty]]
	rec.PathogenTarget = row[cols[colPathogenTarget]]
	rec.GeneTarget = row[cols[colGeneTarget]]
	if rec.SiteName == "" || rec.County == "" || rec.PathogenTarget == "" || rec.GeneTarget == "" {
		return rec, errors.New("missing identity field")
	}

	rec.Concentration, err = strconv.ParseFloat(row[cols[colConcentration]], 64)
	if err != nil {
		return rec, fmt.Errorf("invalid concentration: %w", err)
	}

	rec.UpdatedAt, err = parseUpdatedAt(row[cols[colDateUpdated]])
	if err != nil {
		return rec, err
	}

	return rec, nil
}

// parseUpdatedAt interprets the feed's revision timestamp as Pacific local
// time, fractional seconds optional.
func parseUpdatedAt(s string) (time.Time, error) {
	loc, err := pacificZone()
	if err != nil {
		return time.Time{}, fmt.Errorf("load Pacific timezone: %w", err)
	}

	ts, err := time.ParseInLocation(updatedAtLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date updated: %w", err)
	}
	return ts, nil
}
