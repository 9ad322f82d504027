package sgs

import (
	"net/http"
)

// baseURL is the public SGS endpoint of Banco Central do Brasil.
const baseURL = "https://api.bcb.gov.br/dados/serie"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=sgs_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the SGS time-series API.
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// ClientOption is a configuration option for the SGS client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// NewClient creates a new SGS client.
func NewClient(options ...ClientOption) *Client {
	var client = &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	for _, option := range options {
		option(client)
	}
	return client
}
