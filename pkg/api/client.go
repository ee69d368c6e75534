// Package api is the JSON/HTTP client for the exploration service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
)

// Client communicates with the exploration service.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *log.Logger
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.New(io.Discard, "", 0),
	}
}

// SetLogger sets the logger used for request timing lines.
func (c *Client) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	c.logger = l
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	StatusText string // Reason phrase, e.g. "Internal Server Error"
	Detail     string // detail or message field of a JSON error body
	Body       []byte
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.StatusText
	}
	return fmt.Sprintf("Error %d: %s", e.StatusCode, msg)
}

// newHTTPError tentatively parses body as structured error data.
func newHTTPError(resp *http.Response, body []byte) *HTTPError {
	herr := &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       body,
	}
	if herr.StatusText == "" {
		herr.StatusText = resp.Status
	}

	var errBody struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &errBody) == nil {
		herr.Detail = detailText(errBody.Detail)
		if herr.Detail == "" {
			herr.Detail = errBody.Message
		}
	}
	return herr
}

// detailText flattens FastAPI-style detail values, which may be a string
// or a list of validation objects.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(raw, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(raw)
}

// request makes an HTTP request to the service and returns the raw body of a 2xx response.
func (c *Client) request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	start := time.Now()

	var reqBody io.Reader
	var bodyStr string
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
		bodyStr = string(data)
		if len(bodyStr) > 100 {
			bodyStr = bodyStr[:100] + "..."
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Printf("%s %s [%v] ERROR: %v", method, path, elapsed, err)
		return nil, core.ErrTransport.WithMessage("send request").WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.ErrTransport.WithMessage("read response").WithCause(err)
	}

	status := "OK"
	if resp.StatusCode >= 300 {
		status = fmt.Sprintf("ERR:%d", resp.StatusCode)
	}
	c.logger.Printf("%s %s [%v] %s body=%s", method, path, elapsed, status, bodyStr)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(resp, respBody)
	}

	return respBody, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	data, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return core.ErrDecode.WithMessage("parse " + path).WithCause(err)
	}
	return nil
}

func explorationPath(id string) string {
	return PathExplorations + "/" + url.PathEscape(id)
}

// ListExplorations returns all saved explorations.
func (c *Client) ListExplorations(ctx context.Context) ([]core.Exploration, error) {
	var resp ExplorationList
	if err := c.do(ctx, http.MethodGet, PathExplorations, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Explorations, nil
}

// GetExploration returns one exploration including its summary.
func (c *Client) GetExploration(ctx context.Context, id string) (*core.Exploration, error) {
	var e core.Exploration
	if err := c.do(ctx, http.MethodGet, explorationPath(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteExploration deletes an exploration and reports the service status.
func (c *Client) DeleteExploration(ctx context.Context, id string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodDelete, explorationPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateTests asks the service to generate test cases for a site.
func (c *Client) GenerateTests(ctx context.Context, siteURL string) ([]core.TestCase, error) {
	var cases []core.TestCase
	if err := c.do(ctx, http.MethodPost, PathGenerateTests, URLRequest{URL: siteURL}, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// TestCasesWithCode returns the stored test cases of an exploration with their code.
func (c *Client) TestCasesWithCode(ctx context.Context, explorationID string) (*TestCasesResponse, error) {
	var resp TestCasesResponse
	if err := c.do(ctx, http.MethodGet, explorationPath(explorationID)+suffixTestCasesWithCode, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateSimpleCode calls the primary code generation endpoint.
func (c *Client) GenerateSimpleCode(ctx context.Context, testID int, siteURL string) (*CodeResponse, error) {
	return c.generateCode(ctx, PathGenerateSimpleCode, testID, siteURL)
}

// GenerateCode calls the legacy code generation endpoint.
func (c *Client) GenerateCode(ctx context.Context, testID int, siteURL string) (*CodeResponse, error) {
	return c.generateCode(ctx, PathGenerateCode, testID, siteURL)
}

func (c *Client) generateCode(ctx context.Context, prefix string, testID int, siteURL string) (*CodeResponse, error) {
	var resp CodeResponse
	if err := c.do(ctx, http.MethodPost, prefix+strconv.Itoa(testID), URLRequest{URL: siteURL}, &resp); err != nil {
		return nil, err
	}
	if resp.Code == "" {
		return nil, core.ErrDecode.WithMessage("response has no code")
	}
	return &resp, nil
}

// ExecuteSimpleTest runs code through the simple execution endpoint.
func (c *Client) ExecuteSimpleTest(ctx context.Context, req SimpleTestRequest) (*core.ExecutionResult, error) {
	var result core.ExecutionResult
	if err := c.do(ctx, http.MethodPost, PathExecuteSimpleTest, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecuteTest runs code through the legacy execution endpoint.
func (c *Client) ExecuteTest(ctx context.Context, req TestRequest) (*core.ExecutionResult, error) {
	var result core.ExecutionResult
	if err := c.do(ctx, http.MethodPost, PathExecuteTest, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// IsHTTPError reports whether err is a non-2xx response and returns it.
func IsHTTPError(err error) (*HTTPError, bool) {
	var herr *HTTPError
	if errors.As(err, &herr) {
		return herr, true
	}
	return nil, false
}
