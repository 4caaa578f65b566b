// Package client provides the authenticated HTTP client used to issue
// requests against the server under test. One client is constructed per
// server configuration and shared, read-only, by every test execution.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/ga4gh/rnaget-compliance-suite/logging"
)

const defaultRequestTimeout = time.Second * 30
const maxAuditBodyBytes = 1000

// APIClient issues requests to one RNAget server. Transient transport
// errors are retried a bounded number of times; HTTP-level failures are
// never retried, since a status code is a test outcome rather than an
// infrastructure problem.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *retryablehttp.Client
}

// Response is the subset of an HTTP response that assertions consume.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

type Option func(*APIClient)

// WithRequestTimeout bounds each individual request attempt.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *APIClient) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryMax sets how many times a transport error is retried.
func WithRetryMax(retries int) Option {
	return func(c *APIClient) {
		c.httpClient.RetryMax = retries
	}
}

// New creates an APIClient for the given base URL. If token is
// non-empty, every request carries it as a bearer credential.
func New(baseURL, token string, opts ...Option) *APIClient {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 2
	rc.RetryWaitMin = time.Millisecond * 250
	rc.RetryWaitMax = time.Second * 2
	rc.HTTPClient.Timeout = defaultRequestTimeout
	// Only transport errors are transient. A response, whatever its
	// status code, is handed to the assertions untouched.
	rc.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return err != nil, nil
	}

	c := &APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *APIClient) BaseURL() string { return c.baseURL }

// Get issues a GET request against path (relative to the base URL) with
// the given query parameters, logging the request, an equivalent curl
// command, and a response summary to the audit logger. A non-nil error
// means the request never produced a response (transport failure or
// timeout after retries).
func (c *APIClient) Get(path string, query map[string]string, logger logging.Logger) (*Response, error) {
	if logger == nil {
		logger = logging.NullLogger()
	}
	requestURL := c.buildURL(path, query)

	logger.Printf("request: GET %s", requestURL)
	logger.Printf("to reproduce: %s", c.curlCommand(requestURL))

	req, err := retryablehttp.NewRequest("GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for %s: %w", requestURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Printf("request error: %s", err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Printf("error reading response body: %s", err)
		return nil, err
	}

	logger.Printf("response: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	logger.Printf("response body: %s", truncate(string(body), maxAuditBodyBytes))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *APIClient) buildURL(path string, query map[string]string) string {
	full := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) == 0 {
		return full
	}
	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	return full + "?" + values.Encode()
}

// curlCommand renders a copy-pasteable equivalent of the request. The
// bearer token is redacted.
func (c *APIClient) curlCommand(requestURL string) string {
	parts := []string{"curl", "-H", shellescape.Quote("Accept: application/json")}
	if c.token != "" {
		parts = append(parts, "-H", shellescape.Quote("Authorization: Bearer <redacted>"))
	}
	parts = append(parts, shellescape.Quote(requestURL))
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + fmt.Sprintf("... (%d bytes total)", len(s))
}
