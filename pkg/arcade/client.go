package arcade

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	// ErrDuplicateKey is returned when a command violates a unique index
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrCommandFailed is returned for any other command or transport failure
	ErrCommandFailed = errors.New("arcadedb command failed")
)

// Client talks to a single ArcadeDB database over HTTP.
type Client struct {
	baseURL  string
	database string
	user     string
	password string
	http     *retryablehttp.Client
}

// New creates a client from config. Outbound calls carry a bounded timeout
// and transport failures are retried; HTTP error responses are not, since a
// failed command would fail the same way again.
func New(config Config) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = config.RetryMax
	client.HTTPClient.Timeout = time.Duration(config.TimeoutSeconds) * time.Second
	client.CheckRetry = retryTransportErrors
	client.Logger = nil

	return &Client{
		baseURL:  config.BaseURL(),
		database: config.Database,
		user:     config.User,
		password: config.Password,
		http:     client,
	}
}

// retryTransportErrors retries connection-level failures only.
func retryTransportErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil, nil
}

// Database returns the database name this client is bound to.
func (c *Client) Database() string {
	return c.database
}

type commandRequest struct {
	Language string         `json:"language"`
	Command  string         `json:"command"`
	Params   map[string]any `json:"params,omitempty"`
}

type commandResponse struct {
	Result []map[string]any `json:"result"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	Exception string `json:"exception"`
}

// Command executes a SQL command against the database. Values referenced as
// :name in the command text are supplied through params.
func (c *Client) Command(ctx context.Context, command string, params map[string]any) ([]map[string]any, error) {
	return c.do(ctx, "command", command, params)
}

// Query executes a read-only SQL query against the database.
func (c *Client) Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return c.do(ctx, "query", query, params)
}

func (c *Client) do(ctx context.Context, endpoint, command string, params map[string]any) ([]map[string]any, error) {
	payload, err := json.Marshal(commandRequest{
		Language: "sql",
		Command:  command,
		Params:   params,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	url := fmt.Sprintf("%s/api/v1/%s/%s", c.baseURL, endpoint, c.database)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommandFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, commandError(resp.StatusCode, body)
	}

	var result commandResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: unexpected response: %v", ErrCommandFailed, err)
	}

	return result.Result, nil
}

// commandError classifies an HTTP error response. Unique-index violations
// are surfaced as ErrDuplicateKey so callers can treat them as a lost race
// rather than a fault.
func commandError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if isDuplicateKey(errResp) {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, errResp.Detail)
		}
		if errResp.Error != "" || errResp.Detail != "" {
			return fmt.Errorf("%w: status %d: %s: %s", ErrCommandFailed, status, errResp.Error, errResp.Detail)
		}
	}
	return fmt.Errorf("%w: status %d: %s", ErrCommandFailed, status, strings.TrimSpace(string(body)))
}

func isDuplicateKey(errResp errorResponse) bool {
	if strings.Contains(errResp.Exception, "DuplicatedKeyException") {
		return true
	}
	detail := strings.ToLower(errResp.Detail)
	return strings.Contains(detail, "duplicated key") || strings.Contains(detail, "duplicate key")
}

// HealthCheck verifies connectivity with a trivial query.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Query(ctx, "SELECT 1 as health", nil)
	return err
}
