package models

import "time"

// Record is one row of the DOH wastewater CSV feed as parsed from the
// download, before it is stamped with a poll time.
type Record struct {
	CollectionDate time.Time
	SiteName       string
	County         string
	PathogenTarget string
	GeneTarget     string
	Concentration  float64
	// UpdatedAt is the full source revision timestamp (Pacific time in the
	// feed). Only its date survives into storage.
	UpdatedAt time.Time
}

// Sample is a normalized wastewater measurement ready for DB operations.
// Its identity is the combination of collection date, site, county and the
// two PCR targets; at most one concentration exists per identity.
type Sample struct {
	CollectionDate time.Time
	SiteName       string
	County         string
	PathogenTarget string
	GeneTarget     string
	// Concentration is normalized gene copies/person/day. Each site uses a
	// different normalization method, so values are not comparable between
	// sites.
	Concentration float64
	DateUpdated   time.Time
	// PollTimestamp is the Unix time this row was fetched from the feed,
	// distinct from when the source last revised it.
	PollTimestamp int64
}

// Key identifies a sample row. Dates are in YYYY-MM-DD form, matching the
// stored representation.
type Key struct {
	CollectionDate string
	SiteName       string
	County         string
	PathogenTarget string
	GeneTarget     string
}

// Key returns the composite identity of the sample.
func (s Sample) Key() Key {
	return Key{
		CollectionDate: s.CollectionDate.Format(time.DateOnly),
		SiteName:       s.SiteName,
		County:         s.County,
		PathogenTarget: s.PathogenTarget,
		GeneTarget:     s.GeneTarget,
	}
}

// BuildSamples converts feed records into database-ready samples, stamping
// each with the given poll time.
func BuildSamples(records []Record, polledAt time.Time) []Sample {
	samples := make([]Sample, 0, len(records))
	for _, rec := range records {
		samples = append(samples, Sample{
			CollectionDate: rec.CollectionDate,
			SiteName:       rec.SiteName,
			County:         rec.County,
			PathogenTarget: rec.PathogenTarget,
			GeneTarget:     rec.GeneTarget,
			Concentration:  rec.Concentration,
			DateUpdated:    rec.UpdatedAt,
			PollTimestamp:  polledAt.Unix(),
		})
	}
	return samples
}
