package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"covid-warehouse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(maxAttempts int) *Client {
	return NewClient(config.FetchConfig{MaxAttempts: maxAttempts}, 5*time.Second, time.Millisecond)
}

func TestFetchDataset_DecodesRecordArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date": "2021-01-01", "location": "A", "new_cases": 3},
			{"date": "2021-01-02", "location": "B", "new_cases": 5}
		]`))
	}))
	defer server.Close()

	table, err := newTestClient(1).FetchDataset(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "location", "new_cases"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A", table.Rows[0]["location"])
	assert.Equal(t, 5.0, table.Rows[1]["new_cases"])
}

func TestFetchDataset_DecodesColumnVectors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"location": ["A", "B"],
			"date": ["2021-01-01", "2021-01-02"],
			"new_cases": [3, null]
		}`))
	}))
	defer server.Close()

	table, err := newTestClient(1).FetchDataset(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "location", "new_cases"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "B", table.Rows[1]["location"])
	assert.NotContains(t, table.Rows[1], "new_cases") // null stays absent
}

func TestFetchDataset_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"date": "2021-01-01", "location": "A"}]`))
	}))
	defer server.Close()

	table, err := newTestClient(3).FetchDataset(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchDataset_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(3).FetchDataset(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchDataset_FailsAfterAttemptBudget(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(3).FetchDataset(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetchDataset_RejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"just a string"`))
	}))
	defer server.Close()

	_, err := newTestClient(1).FetchDataset(context.Background(), server.URL)

	assert.Error(t, err)
}

func TestDecode_RejectsRaggedColumnVectors(t *testing.T) {
	_, err := Decode([]byte(`{"a": [1, 2], "b": [1]}`))

	assert.Error(t, err)
}
