// Package strapi implements the typed client for the headless content
// backend: product catalog reads, cart and client record CRUD, and image
// downloads. Every call is a single bounded request; failed calls are never
// retried here.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Evst404/Sale-fish-tgbot/internal/config"
)

const maxErrorBody = 2048

// Client provides typed access to the remote catalog/cart/client store.
type Client struct {
	http *http.Client

	base          string
	productsURL   string
	productsQuery url.Values

	tokenRead string
	tokenAuth string
}

// New builds a Client from configuration. A fully custom products URL
// (including query parameters) overrides the default <base>/api/products
// listing endpoint; its query string is split off and re-sent on every call.
func New(cfg config.StrapiConfig) (*Client, error) {
	c := &Client{
		http:      newHTTPClient(time.Duration(cfg.TimeoutSeconds) * time.Second),
		base:      strings.TrimRight(cfg.URLBase, "/"),
		tokenRead: cfg.TokenRead,
		tokenAuth: cfg.AuthToken(),
	}

	if raw := strings.TrimSpace(cfg.ProductsURL); raw != "" {
		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("strapi: invalid products url %q: %w", raw, err)
		}
		query := parsed.Query()
		parsed.RawQuery = ""
		parsed.Fragment = ""
		c.productsURL = parsed.String()
		c.productsQuery = query
	} else {
		c.productsURL = c.base + "/api/products"
		c.productsQuery = url.Values{"populate": []string{"*"}}
	}

	return c, nil
}

// newHTTPClient builds the outbound HTTP client for content store calls.
// Unlike the Telegram transport there is no retry layer: a failed call
// surfaces to the handler, which reports it to the user.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// do performs one request against the content backend. A non-2xx response
// becomes a *RemoteError; transport failures are returned wrapped so callers
// can distinguish them via errors.As.
func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, token string, body, out any) error {
	u := rawURL
	if len(query) > 0 {
		u = rawURL + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("strapi: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("strapi: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("strapi: %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("strapi: decode response: %w", err)
	}
	return nil
}
