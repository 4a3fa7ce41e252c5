package httpclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// New returns a client with connection reuse bounded for one upstream,
// which is all the bot talks to.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 16,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
