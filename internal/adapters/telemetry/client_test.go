package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fleetfix/fleetfix/internal/config"
	"github.com/fleetfix/fleetfix/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	cfg := config.TelemetryConfig{
		BaseURL:        serverURL,
		Token:          "test-token",
		Year:           "2025",
		PerPage:        2,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}
	return NewClient(cfg, logger.New("telemetry-test"))
}

func writePage(w http.ResponseWriter, next string, records ...map[string]interface{}) {
	body := map[string]interface{}{
		"results": records,
	}
	if next != "" {
		body["next"] = next
	} else {
		body["next"] = nil
	}
	_ = json.NewEncoder(w).Encode(body)
}

func fuelRecord(id int64, code string, odometer float64, timestamp string) map[string]interface{} {
	return map[string]interface{}{
		"id":             id,
		"veiculo_detail": map[string]interface{}{"codigo": json.Number(code)},
		"hodometro":      odometer,
		"data":           timestamp,
	}
}

func TestFetchAll_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		writePage(w, "",
			fuelRecord(1, "120", 45210.5, "14/03/2025 09:30:00"),
			fuelRecord(2, "121", 12000.0, "14/03/2025 10:00:00"),
		)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.FetchAll(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ExternalID)
	assert.Equal(t, "120", records[0].VehicleCode)
	assert.Equal(t, 45210.5, records[0].Odometer)
	assert.Equal(t, "14/03/2025 09:30:00", records[0].Timestamp)
}

func TestFetchAll_WalksAllPages(t *testing.T) {
	var pagesServed int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pagesServed, 1)
		switch r.URL.Query().Get("page") {
		case "1":
			writePage(w, "http://next-page",
				fuelRecord(1, "120", 45210.5, "14/03/2025 09:30:00"),
				fuelRecord(2, "121", 12000.0, "14/03/2025 10:00:00"),
			)
		case "2":
			writePage(w, "",
				fuelRecord(3, "122", 800.0, "14/03/2025 11:00:00"),
			)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&pagesServed))
	assert.Equal(t, int64(3), records[2].ExternalID)
}

func TestFetchAll_RetriesTransientFailures(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writePage(w, "", fuelRecord(1, "120", 45210.5, "14/03/2025 09:30:00"))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestFetchAll_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	records, err := client.FetchAll(context.Background())

	assert.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestFetchAll_UnauthorizedIsPermanent(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchAll(context.Background())

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &httpStatusError{Status: http.StatusTooManyRequests}, true},
		{"server error", &httpStatusError{Status: http.StatusBadGateway}, true},
		{"unauthorized", &httpStatusError{Status: http.StatusUnauthorized}, false},
		{"not found", &httpStatusError{Status: http.StatusNotFound}, false},
		{"network failure", fmt.Errorf("connection refused"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}
