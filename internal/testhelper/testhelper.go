// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper contains helpers shared by the package tests.
package testhelper

import (
	"net/http"
	"os"
	"sync/atomic"
	"testing"
)

const (
	// TestOnlineAPIURL is a slow responding endpoint used for timeout tests against the real network.
	TestOnlineAPIURL = "https://httpbin.org/delay/5"

	integrationEnv = "PERFORM_INTEGRATION_TESTS"
)

// MockRoundTripper is a http.RoundTripper that hands every request to Fn.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// CountingRoundTripper wraps a RoundTripper and counts the requests that passed through it.
type CountingRoundTripper struct {
	Next  http.RoundTripper
	count atomic.Int64
}

func (c *CountingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.count.Add(1)
	return c.Next.RoundTrip(req)
}

// Count returns the number of requests seen so far.
func (c *CountingRoundTripper) Count() int64 {
	return c.count.Load()
}

// FileResponse returns a round trip function that answers every request with the given status code
// and the content of file as body.
func FileResponse(t *testing.T, status int, file string) func(*http.Request) (*http.Response, error) {
	t.Helper()
	return func(*http.Request) (*http.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &http.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(http.Header),
		}, nil
	}
}

// PerformIntegrationTests skips the calling test unless integration tests are enabled via the
// PERFORM_INTEGRATION_TESTS environment variable.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv(integrationEnv) == "" {
		t.Skipf("skipping integration test, set %s to enable", integrationEnv)
	}
}
