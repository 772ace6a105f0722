// Package relayer implements the HTTP client for the transaction relayer service.
package relayer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trebuchet-org/treb-relay/internal/domain"
	"github.com/trebuchet-org/treb-relay/internal/domain/models"
	"github.com/trebuchet-org/treb-relay/internal/usecase"
)

const (
	NoncePath        = "/nonce"
	TransactionPath  = "/transaction"
	TransactionsPath = "/transactions"
	DeployedPath     = "/deployed"
	SubmitPath       = "/submit"

	// RequestIDHeader correlates client log lines with relayer logs
	RequestIDHeader = "X-Request-Id"

	defaultTimeout = 30 * time.Second
)

// APIError is returned when the relayer answers with a non-2xx status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("relayer %s %s: unexpected status code: %d, body: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client talks to the relayer HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    usecase.HeaderGenerator
	log        *slog.Logger
}

// NewHTTPClient returns an HTTP client whose per-request timeout is timeout,
// or the default when it is not positive
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewClient creates a relayer client. headers may be nil, in which case every
// request goes out unauthenticated.
func NewClient(baseURL string, httpClient *http.Client, headers usecase.HeaderGenerator, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(defaultTimeout)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    headers,
		log:        log.With("component", "relayer"),
	}
}

// BaseURL returns the normalized relayer URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetNonce returns the relayer-tracked nonce for a signer
func (c *Client) GetNonce(ctx context.Context, signerAddress string, txType models.TransactionType) (*models.NoncePayload, error) {
	query := url.Values{}
	query.Set("address", signerAddress)
	query.Set("type", string(txType))

	var payload models.NoncePayload
	if err := c.do(ctx, http.MethodGet, NoncePath, query, nil, false, &payload); err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	return &payload, nil
}

// GetTransaction returns the records matching a transaction id. The result may be empty.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) ([]models.RelayerTransaction, error) {
	query := url.Values{}
	query.Set("id", transactionID)

	var txs []models.RelayerTransaction
	if err := c.do(ctx, http.MethodGet, TransactionPath, query, nil, false, &txs); err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txs, nil
}

// GetTransactions lists transactions visible to the authenticated caller
func (c *Client) GetTransactions(ctx context.Context) ([]models.RelayerTransaction, error) {
	var txs []models.RelayerTransaction
	if err := c.do(ctx, http.MethodGet, TransactionsPath, nil, nil, true, &txs); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

// GetDeployed reports whether the Safe at the given address has been deployed
func (c *Client) GetDeployed(ctx context.Context, safeAddress string) (bool, error) {
	query := url.Values{}
	query.Set("address", safeAddress)

	var payload models.DeployedPayload
	if err := c.do(ctx, http.MethodGet, DeployedPath, query, nil, false, &payload); err != nil {
		return false, fmt.Errorf("failed to get deployment status: %w", err)
	}
	return payload.Deployed, nil
}

// Submit posts a signed transaction request. It is never retried.
func (c *Client) Submit(ctx context.Context, request *models.TransactionRequest) (*models.SubmitResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var resp models.SubmitResponse
	if err := c.do(ctx, http.MethodPost, SubmitPath, nil, body, true, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, authenticated bool, out any) error {
	if c.baseURL == "" {
		return domain.ErrRelayerNotConfigured
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated && c.headers != nil {
		headers, err := c.headers.GenerateHeaders(ctx, method, path, body)
		if err != nil {
			return fmt.Errorf("failed to generate auth headers: %w", err)
		}
		for key, values := range headers {
			for _, v := range values {
				req.Header.Add(key, v)
			}
		}
		authenticated = headers != nil
	} else {
		authenticated = false
	}

	start := time.Now()
	c.log.Debug("relayer request", "method", method, "path", path, "request_id", requestID, "authenticated", authenticated)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("relayer response", "method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ usecase.RelayerAPI = (*Client)(nil)
