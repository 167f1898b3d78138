package customHttpClient

import (
	"net/http"

	"github.com/rkondaveeti/IngestAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// PooledClient returns an http client sharing the pooled transport, for
// outbound calls like callback delivery.
func PooledClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.CallbackTimeout,
	}
}
