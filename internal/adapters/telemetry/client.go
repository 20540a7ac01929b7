package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cenkalti/backoff/v5"
	"github.com/fleetfix/fleetfix/internal/config"
	"github.com/fleetfix/fleetfix/internal/domain/ports"
	"github.com/fleetfix/fleetfix/internal/logger"
)

// Client fetches fueling records from the external telemetry API. The
// listing is paginated; FetchAll walks every page and returns the raw
// records for the reconciler to validate.
type Client struct {
	baseURL    string
	token      string
	year       string
	perPage    int
	maxRetries int
	httpClient *http.Client
	backoffFn  func() *backoff.ExponentialBackOff
	log        logger.Logger
}

// NewClient creates a new telemetry API client
func NewClient(cfg config.TelemetryConfig, log logger.Logger) *Client {
	c := &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		year:       cfg.Year,
		perPage:    cfg.PerPage,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		log:        log,
	}

	c.backoffFn = func() *backoff.ExponentialBackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = cfg.InitialBackoff
		bo.MaxInterval = cfg.MaxBackoff
		return bo
	}

	return c
}

var _ ports.TelemetrySource = (*Client)(nil)

// page is one response of the paginated fueling listing
type page struct {
	Results []wireRecord `json:"results"`
	Next    *string      `json:"next"`
}

// wireRecord is a fueling record as the API serializes it
type wireRecord struct {
	ID            int64         `json:"id"`
	VehicleDetail vehicleDetail `json:"veiculo_detail"`
	Odometer      float64       `json:"hodometro"`
	Timestamp     string        `json:"data"`
	Liters        *float64      `json:"litros,omitempty"`
	Amount        *float64      `json:"valor,omitempty"`
	FuelType      *string       `json:"combustivel,omitempty"`
}

type vehicleDetail struct {
	Code json.Number `json:"codigo"`
}

// FetchAll walks the paginated listing and returns every record. Pages
// are fetched with bounded retries; a page that still fails after
// retries aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context) ([]ports.TelemetryRecord, error) {
	var records []ports.TelemetryRecord

	pageNum := 1
	for {
		result, err := c.fetchPage(ctx, pageNum)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", pageNum, err)
		}

		logger.TelemetryPages.Inc()
		c.log.Debugw("fetched telemetry page", "page", pageNum, "records", len(result.Results))

		for _, raw := range result.Results {
			records = append(records, ports.TelemetryRecord{
				ExternalID:  raw.ID,
				VehicleCode: raw.VehicleDetail.Code.String(),
				Odometer:    raw.Odometer,
				Timestamp:   raw.Timestamp,
				Liters:      raw.Liters,
				Amount:      raw.Amount,
				FuelType:    raw.FuelType,
			})
		}

		if result.Next == nil || *result.Next == "" {
			break
		}
		pageNum++
	}

	return records, nil
}

// fetchPage retrieves one page, retrying transient failures with
// exponential backoff.
func (c *Client) fetchPage(ctx context.Context, pageNum int) (*page, error) {
	operation := func() (*page, error) {
		result, err := c.doRequest(ctx, pageNum)
		if err != nil {
			if isRetryable(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return result, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.backoffFn()),
		backoff.WithMaxTries(uint(c.maxRetries)),
	)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Client) doRequest(ctx context.Context, pageNum int) (*page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")

	query := url.Values{}
	query.Set("year", c.year)
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("perPage", strconv.Itoa(c.perPage))
	req.URL.RawQuery = query.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &httpStatusError{Status: resp.StatusCode}
	}

	var result page
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// httpStatusError marks a non-200 response so the retry policy can
// distinguish transient statuses from permanent ones.
type httpStatusError struct {
	Status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Status)
}

// isRetryable reports whether the error is worth retrying. 429 and 5xx
// statuses and network-level failures are transient; any other HTTP
// status is permanent.
func isRetryable(err error) bool {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return httpErr.Status == http.StatusTooManyRequests || httpErr.Status >= 500
	}
	return true
}
