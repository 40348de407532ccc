package customHttpClient

import (
	"net/http"

	"github.com/akolanti/InvoiceAPI/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// Pooled is the shared connection-reusing client handed to the genai SDK
// clients so the embedder and the LLM don't redial Google per call.
func Pooled() *http.Client {
	return pooledClient
}
