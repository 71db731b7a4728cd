package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/constants"
	"tally/pkg/metrics"
)

// APIProvider fetches rates over HTTP. The URL may carry {base} and {quote}
// placeholders; the response body must be a JSON object with a numeric
// "rate" field.
type APIProvider struct {
	client *http.Client
	url    string
	quote  string
}

func NewAPIProvider(url, quote string, timeoutMs int) *APIProvider {
	timeout := constants.DefaultHTTPTimeout
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}

	return &APIProvider{
		client: &http.Client{Timeout: timeout},
		url:    url,
		quote:  quote,
	}
}

type rateResponse struct {
	Rate float64 `json:"rate"`
}

func (p *APIProvider) Rate(ctx context.Context, base string) (decimal.Decimal, error) {
	if base == p.quote {
		return decimal.NewFromInt(1), nil
	}

	url := strings.ReplaceAll(p.url, "{base}", base)
	url = strings.ReplaceAll(url, "{quote}", p.quote)

	start := time.Now()
	rate, err := p.fetch(ctx, url)
	metrics.ObserveRateProviderDuration("api", time.Since(start))
	if err != nil {
		metrics.IncRateProviderRequest("api", "error")
		return decimal.Zero, err
	}

	metrics.IncRateProviderRequest("api", "success")
	return rate, nil
}

func (p *APIProvider) fetch(ctx context.Context, url string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constants.HTTPStatusOKMin || resp.StatusCode >= constants.HTTPStatusOKMax {
		return decimal.Zero, fmt.Errorf("rate api returned status: %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode rate response: %w", err)
	}

	if body.Rate <= 0 {
		return decimal.Zero, fmt.Errorf("rate api returned non-positive rate: %f", body.Rate)
	}

	return decimal.NewFromFloat(body.Rate), nil
}

func (p *APIProvider) Quote() string {
	return p.quote
}
