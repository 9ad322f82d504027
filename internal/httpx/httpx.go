package httpx

import (
    "net"
    "net/http"
    "time"
)

// DefaultUserAgent identifies this service to upstream APIs.
const DefaultUserAgent = "bcbseries/1.0"

// Client is a small wrapper around http.Client that fills in default headers.
type Client struct {
    HTTP      *http.Client
    UserAgent string
    Headers   map[string]string
}

// New returns a client whose every request is bounded by timeout.
func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          20,
        MaxIdleConnsPerHost:   10,
        MaxConnsPerHost:       10,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   5 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
    }
    return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: DefaultUserAgent}
}

// Do sends req with the configured defaults. Headers already set on req win.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    for k, v := range c.Headers {
        if req.Header.Get(k) == "" {
            req.Header.Set(k, v)
        }
    }
    return c.HTTP.Do(req)
}
