package listing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"coinlisting/internal/domain/model"
	"coinlisting/internal/domain/port"
)

var _ port.ListingSource = (*HTTPSource)(nil)

const defaultQuoteCurrency = "USD"

type Options struct {
	URL           string
	Headers       map[string]string
	QuoteCurrency string
	// Timeout is the transport timeout of the default client. Zero disables it.
	Timeout time.Duration
	Client  *http.Client
}

// HTTPSource reads the coin listing from a REST endpoint returning
// {"data": [...]}. Every Fetch is a single GET with no retry.
type HTTPSource struct {
	url        string
	headers    map[string]string
	currency   string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPSource(opts Options, logger *slog.Logger) *HTTPSource {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	currency := opts.QuoteCurrency
	if currency == "" {
		currency = defaultQuoteCurrency
	}

	return &HTTPSource{
		url:        opts.URL,
		headers:    opts.Headers,
		currency:   currency,
		httpClient: client,
		logger:     logger,
	}
}

func (s *HTTPSource) Name() string {
	return "http"
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]model.Coin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &model.FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &model.FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &model.FetchError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.FetchError{Err: fmt.Errorf("read body: %w", err)}
	}

	coins, err := decodeListing(body, s.currency)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listing fetched", "url", s.url, "status", resp.StatusCode, "coins", len(coins))
	return coins, nil
}
