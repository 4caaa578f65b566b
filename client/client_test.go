package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ga4gh/rnaget-compliance-suite/logging"
)

func TestGetSendsBearerTokenAndAccept(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := New(server.URL, "secret-token")
	_, err := c.Get("projects/abc", nil, nil)
	require.NoError(t, err)

	req := <-requestsCh
	assert.Equal(t, "Bearer secret-token", req.Request.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Request.Header.Get("Accept"))
	assert.Equal(t, "/projects/abc", req.Request.URL.Path)
}

func TestGetWithoutTokenOmitsAuthorization(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.Get("projects/abc", nil, nil)
	require.NoError(t, err)

	req := <-requestsCh
	assert.Empty(t, req.Request.Header.Get("Authorization"))
}

func TestGetBuildsQueryParameters(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.Get("projects/search", map[string]string{"version": "1.0", "name": "PCAWG"}, nil)
	require.NoError(t, err)

	req := <-requestsCh
	assert.Equal(t, "1.0", req.Request.URL.Query().Get("version"))
	assert.Equal(t, "PCAWG", req.Request.URL.Query().Get("name"))
}

func TestGetReturnsResponseForAnyStatusCode(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(404, nil, []byte(`{"message":"not here"}`)))
	defer server.Close()

	c := New(server.URL, "")
	resp, err := c.Get("projects/nope", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "not here")
}

func TestGetDoesNotRetryHTTPErrorStatuses(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := New(server.URL, "")
	resp, err := c.Get("projects/abc", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetTimesOutOnUnresponsiveEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	c := New(server.URL, "", WithRequestTimeout(time.Millisecond*50), WithRetryMax(0))
	_, err := c.Get("projects/abc", nil, nil)
	assert.Error(t, err)
}

func TestGetAuditTrail(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(200, nil, []byte(`{"id":"abc"}`)))
	defer server.Close()

	c := New(server.URL, "secret-token")
	var logger logging.CapturingLogger
	_, err := c.Get("projects/abc", nil, &logger)
	require.NoError(t, err)

	audit := strings.Join(logger.Messages(), "\n")
	assert.Contains(t, audit, "request: GET "+server.URL+"/projects/abc")
	assert.Contains(t, audit, "curl")
	assert.Contains(t, audit, "<redacted>")
	assert.NotContains(t, audit, "secret-token")
	assert.Contains(t, audit, "response: 200 OK")
	assert.Contains(t, audit, `{"id":"abc"}`)
}

func TestAuditBodyIsTruncated(t *testing.T) {
	big := strings.Repeat("x", maxAuditBodyBytes*2)
	server := httptest.NewServer(httphelpers.HandlerWithResponse(200, nil, []byte(big)))
	defer server.Close()

	c := New(server.URL, "")
	var logger logging.CapturingLogger
	_, err := c.Get("things", nil, &logger)
	require.NoError(t, err)

	audit := strings.Join(logger.Messages(), "\n")
	assert.Contains(t, audit, "bytes total")
	assert.NotContains(t, audit, big)
}
