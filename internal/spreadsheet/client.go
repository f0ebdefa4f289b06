package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/lessondeck/internal/catalog"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 2 * time.Second
)

// FetchError is returned once every attempt to download a spreadsheet failed.
// StatusCode is 0 when no HTTP response was received.
type FetchError struct {
	URL        string
	Attempts   uint
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch spreadsheet %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Config struct {
	URL         string
	Format      Format
	Sheet       string
	Timeout     time.Duration
	MaxAttempts uint
	RetryDelay  time.Duration
}

// Client downloads a course spreadsheet.
type Client struct {
	httpClient *resty.Client
	exportURL  string
	config     Config
}

func NewClient(config Config) (*Client, error) {
	if config.Format == "" {
		config.Format = FormatXLSX
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.RetryDelay < 0 {
		config.RetryDelay = DefaultRetryDelay
	}

	exportURL, err := ExportURL(config.URL, config.Format)
	if err != nil {
		return nil, fmt.Errorf("ExportURL > %w", err)
	}

	httpClient := resty.New()
	httpClient.SetTimeout(config.Timeout)

	return &Client{
		httpClient: httpClient,
		exportURL:  exportURL,
		config:     config,
	}, nil
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// ExportURL returns the URL the client downloads from.
func (client *Client) ExportURL() string {
	return client.exportURL
}

// isRetryableStatus reports whether a failed response may succeed later.
func isRetryableStatus(code int) bool {
	return code >= http.StatusInternalServerError ||
		code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout
}

// Fetch downloads and decodes the spreadsheet. Transport errors and 5xx, 408
// and 429 responses are retried with a fixed delay; other failures stop at once.
func (client *Client) Fetch(ctx context.Context) (Table, error) {
	var body []byte
	var attempts uint
	var statusCode int

	err := retry.Do(
		func() error {
			attempts++
			statusCode = 0
			response, err := client.httpClient.R().
				SetContext(ctx).
				Get(client.exportURL)
			if err != nil {
				return fmt.Errorf("httpClient.Get > %w", err)
			}
			statusCode = response.StatusCode()
			if response.IsError() {
				err := fmt.Errorf("response error %d", statusCode)
				if !isRetryableStatus(statusCode) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			body = response.Bytes()
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.config.MaxAttempts),
		retry.Delay(client.config.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Warn("spreadsheet download attempt failed",
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("url", client.exportURL),
				slog.Any("error", err),
			)
		}),
	)
	if err != nil {
		return Table{}, &FetchError{
			URL:        client.exportURL,
			Attempts:   attempts,
			StatusCode: statusCode,
			Err:        err,
		}
	}
	if len(body) == 0 {
		return Table{}, errors.New("spreadsheet download returned an empty body")
	}

	table, err := Decode(body, client.config.Format, client.config.Sheet)
	if err != nil {
		return Table{}, fmt.Errorf("Decode > %w", err)
	}
	slog.Default().Debug("downloaded spreadsheet",
		slog.String("url", client.exportURL),
		slog.Int("rows", len(table.Rows)),
		slog.Uint64("attempts", uint64(attempts)),
	)
	return table, nil
}

// FetchSheet implements catalog.RowSource.
func (client *Client) FetchSheet(ctx context.Context) (catalog.Sheet, error) {
	table, err := client.Fetch(ctx)
	if err != nil {
		return catalog.Sheet{}, err
	}
	return table.Sheet(), nil
}
