package http

import (
	"fmt"
	"net/http"
	"time"

	"lifeops/internal/config"
	"lifeops/pkg/circuitbreaker"
)

// Client is a custom HTTP client that wraps the standard http.Client and
// provides built-in support for circuit breaking on outbound provider
// calls. A request timeout is always enforced so a hung provider cannot
// stall the pipeline.
type Client struct {
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker
}

// NewClient creates a Client with the given request timeout and, when
// enabled, a circuit breaker configured from cfg.
func NewClient(cfg config.CircuitBreakerConfig, timeout time.Duration) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if !cfg.Enabled {
		return &Client{httpClient: httpClient}, nil
	}

	breakerTimeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout '%s': %w", cfg.Timeout, err)
	}

	return &Client{
		httpClient: httpClient,
		breaker:    circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, breakerTimeout),
	}, nil
}

// Do executes an HTTP request with circuit breaker protection. Status
// codes >= 500 count as failures against the breaker.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}

	var resp *http.Response

	_, breakerErr := c.breaker.Execute(func() (interface{}, error) {
		var err error
		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: received status code %d", resp.StatusCode)
		}
		return resp, nil
	})
	if breakerErr != nil {
		return nil, breakerErr
	}

	return resp, nil
}
