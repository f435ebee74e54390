package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"covid-warehouse/internal/config"
	"covid-warehouse/internal/model"
)

// Client fetches full remote dataset snapshots over HTTPS and decodes them
// into tables. Transient failures (network errors, 5xx, 429) are retried
// with exponential backoff up to the configured attempt budget.
type Client struct {
	http         *http.Client
	maxAttempts  int
	initialDelay time.Duration
}

func NewClient(cfg config.FetchConfig, timeout, initialDelay time.Duration) *Client {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		http:         &http.Client{Timeout: timeout},
		maxAttempts:  attempts,
		initialDelay: initialDelay,
	}
}

// FetchDataset retrieves the current snapshot at url as a table.
func (c *Client) FetchDataset(ctx context.Context, url string) (model.Table, error) {
	var lastErr error
	delay := c.initialDelay

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		table, retryable, err := c.fetchOnce(ctx, url)
		if err == nil {
			return table, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxAttempts {
			break
		}

		fmt.Printf("🔄 Fetch attempt %d/%d failed for %s: %v\n", attempt, c.maxAttempts, url, err)
		select {
		case <-ctx.Done():
			return model.Table{}, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return model.Table{}, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) (model.Table, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Table{}, false, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Table{}, true, fmt.Errorf("failed to GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return model.Table{}, retryable, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Table{}, true, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	table, err := Decode(body)
	if err != nil {
		return model.Table{}, false, fmt.Errorf("failed to decode %s: %w", url, err)
	}
	return table, false, nil
}

// Decode parses a JSON document into a table. Both layouts that the remote
// snapshots use are supported: an array of row objects, and an object of
// column vectors. Columns are sorted so the result is deterministic.
func Decode(data []byte) (model.Table, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err == nil {
		return tableFromRecords(records), nil
	}

	var columns map[string][]interface{}
	if err := json.Unmarshal(data, &columns); err == nil {
		return tableFromColumns(columns)
	}

	return model.Table{}, fmt.Errorf("payload is neither a record array nor a column map")
}

func tableFromRecords(records []map[string]interface{}) model.Table {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range records {
		for name := range rec {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	table := model.Table{Columns: names}
	for _, rec := range records {
		row := make(model.Record, len(rec))
		for k, v := range rec {
			if v != nil {
				row[k] = v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func tableFromColumns(columns map[string][]interface{}) (model.Table, error) {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	rowCount := -1
	for _, name := range names {
		if rowCount == -1 {
			rowCount = len(columns[name])
		} else if len(columns[name]) != rowCount {
			return model.Table{}, fmt.Errorf("ragged column vectors: %s has %d values, want %d", name, len(columns[name]), rowCount)
		}
	}
	if rowCount == -1 {
		rowCount = 0
	}

	table := model.Table{Columns: names}
	for r := 0; r < rowCount; r++ {
		row := make(model.Record, len(names))
		for _, name := range names {
			if v := columns[name][r]; v != nil {
				row[name] = v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
