// Package clients holds HTTP clients for the external services the engine
// collaborates with.
package clients

import (
	"net/http"
	"time"
)

type HTTP struct{ c *http.Client }

func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{c: &http.Client{Timeout: timeout}}
}
