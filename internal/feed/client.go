package feed

import (
	"context"
	"fmt"
	"net/http"

	"github.com/maloquacious/wastewater/internal/models"
)

// FetchRecords downloads the wastewater CSV feed and parses it.
// Returns the parsed records and the number of malformed rows skipped.
func FetchRecords(ctx context.Context, client *http.Client, url string) ([]models.Record, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request wastewater feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return ParseRecords(resp.Body)
}
