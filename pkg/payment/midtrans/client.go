package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client represents a Midtrans API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Midtrans client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreateTransaction registers a transaction with the Snap API and returns the
// payment token and redirect URL for the customer.
func (c *Client) CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error) {
	if req.Callbacks == nil && c.config.FinishURL != "" {
		req.Callbacks = &Callbacks{Finish: c.config.FinishURL}
	}

	url := fmt.Sprintf("%s/transactions", c.config.SnapURL)
	resp, err := c.doRequest(ctx, http.MethodPost, url, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create snap transaction: %w", err)
	}

	var snapResp SnapResponse
	if err := json.Unmarshal(resp, &snapResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snap response: %w", err)
	}

	return &snapResp, nil
}

// Status queries the Core API for the current transaction status of an order.
func (c *Client) Status(ctx context.Context, orderID string) (*TransactionStatus, error) {
	url := fmt.Sprintf("%s/%s/status", c.config.BaseURL, orderID)
	resp, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction status: %w", err)
	}

	var status TransactionStatus
	if err := json.Unmarshal(resp, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status response: %w", err)
	}

	return &status, nil
}

// Cancel asks the gateway to cancel a pending transaction.
func (c *Client) Cancel(ctx context.Context, orderID string) (*TransactionStatus, error) {
	url := fmt.Sprintf("%s/%s/cancel", c.config.BaseURL, orderID)
	resp, err := c.doRequest(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	var status TransactionStatus
	if err := json.Unmarshal(resp, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cancel response: %w", err)
	}

	return &status, nil
}

// doRequest performs an HTTP request against the Midtrans API
func (c *Client) doRequest(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Midtrans authenticates with HTTP basic auth: base64(serverKey + ":")
	auth := base64.StdEncoding.EncodeToString([]byte(c.config.ServerKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody))
		}

		errorMsg := fmt.Sprintf("Midtrans API error - Status: %d, Code: %s, Message: %s",
			resp.StatusCode, errResp.StatusCode, errResp.StatusMessage)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrTransactionFailed, errorMsg)
		}
	}

	return respBody, nil
}
