// Package portone implements the server-side verification client for
// PortOne payments. The client fetches the payment record the provider
// holds so the recorded amount can be checked against the one the
// browser reported.
package portone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound is returned when the provider has no payment with the
// given id.
var ErrNotFound = errors.New("payment not found")

type Client struct {
	apiSecret  string
	apiURL     string
	httpClient *http.Client
}

func NewClient(apiURL, apiSecret string, timeout time.Duration) *Client {
	return &Client{
		apiSecret:  apiSecret,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetPayment fetches the provider-side record for paymentID.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*PaymentResponse, error) {
	reqURL := c.apiURL + "/payments/" + url.PathEscape(paymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "PortOne "+c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var payment PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
