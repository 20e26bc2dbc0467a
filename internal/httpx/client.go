// Package httpx owns the HTTP client shared by every outbound
// integration, so one timeout knob covers Mode, OpenAI and image
// fetches alike.
package httpx

import (
	"net/http"
	"time"
)

const defaultExternalTimeout = 30 * time.Second

var externalClient = &http.Client{
	Timeout: defaultExternalTimeout,
}

// Client returns the shared outbound HTTP client.
func Client() *http.Client {
	return externalClient
}

// ConfigureTimeout replaces the shared client's timeout. Call once at
// startup, before any requests are in flight.
func ConfigureTimeout(seconds int) {
	if seconds < 1 {
		return
	}
	externalClient.Timeout = time.Duration(seconds) * time.Second
}
