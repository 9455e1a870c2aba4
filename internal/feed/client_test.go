package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchRecords(t *testing.T) {
	body := feedHeader + "\n" +
		"2024-01-15,Site A,Countyville,SARS-CoV-2,N1,123.45,2024-01-16 10:30:00.123\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	records, skipped, err := FetchRecords(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("got %d skipped, want 0", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
}

func TestFetchRecordsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, _, err := FetchRecords(context.Background(), srv.Client(), srv.URL)
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
