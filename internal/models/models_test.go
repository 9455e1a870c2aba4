package models

import (
	"testing"
	"time"
)

func TestBuildSamples(t *testing.T) {
	polledAt := time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
	records := []Record{
		{
			CollectionDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			SiteName:       "Site A",
			County:         "Countyville",
			PathogenTarget: "SARS-CoV-2",
			GeneTarget:     "N1",
			Concentration:  123.45,
			UpdatedAt:      time.Date(2024, 1, 16, 10, 30, 0, 0, time.UTC),
		},
		{
			CollectionDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			SiteName:       "Site B",
			County:         "Countyville",
			PathogenTarget: "Influenza A",
			GeneTarget:     "M",
			Concentration:  67.8,
			UpdatedAt:      time.Date(2024, 1, 16, 10, 30, 0, 0, time.UTC),
		},
	}

	samples := BuildSamples(records, polledAt)
	if len(samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(samples))
	}

	for _, s := range samples {
		if s.PollTimestamp != polledAt.Unix() {
			t.Errorf("got poll timestamp %d, want %d", s.PollTimestamp, polledAt.Unix())
		}
	}
	if samples[0].SiteName != "Site A" || samples[1].SiteName != "Site B" {
		t.Errorf("record order not preserved: %q, %q", samples[0].SiteName, samples[1].SiteName)
	}
}

func TestSampleKey(t *testing.T) {
	sample := Sample{
		CollectionDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		SiteName:       "Site A",
		County:         "Countyville",
		PathogenTarget: "SARS-CoV-2",
		GeneTarget:     "N1",
	}

	want := Key{
		CollectionDate: "2024-01-15",
		SiteName:       "Site A",
		County:         "Countyville",
		PathogenTarget: "SARS-CoV-2",
		GeneTarget:     "N1",
	}

	if got := sample.Key(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
