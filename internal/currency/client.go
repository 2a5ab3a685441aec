package currency

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const defaultAPIBase = "https://api.freecurrencyapi.com/v1/latest"

// Client fetches spot exchange rates from freecurrencyapi. Rates feed the
// display layer only; nothing downstream of the analytics engine depends on
// them.
type Client struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: defaultAPIBase,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchRate returns how many units of display currency one unit of base
// currency buys (with up to 3 retries).
func (c *Client) FetchRate(ctx context.Context, base, display string) (float64, error) {
	if c.APIKey == "" {
		return 0, fmt.Errorf("currency api key not configured")
	}
	endpoint := c.BaseURL
	if endpoint == "" {
		endpoint = defaultAPIBase
	}
	query := url.Values{}
	query.Set("apikey", c.APIKey)
	query.Set("base_currency", base)
	query.Set("currencies", display)

	var lastErr error
	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
		if err != nil {
			return 0, err
		}
		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			if !sleepCtx(ctx, time.Duration(i+1)*time.Second) {
				return 0, ctx.Err()
			}
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			lastErr = fmt.Errorf("currency api status=%d", resp.StatusCode)
			if !sleepCtx(ctx, time.Duration(i+1)*time.Second) {
				return 0, ctx.Err()
			}
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		rate := gjson.GetBytes(body, "data."+display)
		if !rate.Exists() || rate.Float() <= 0 {
			return 0, fmt.Errorf("currency api response missing rate for %s", display)
		}
		return rate.Float(), nil
	}
	return 0, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
