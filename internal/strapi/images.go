package strapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxImageBytes = 10 << 20

// ResolveImageURL completes a media URL that the backend returned relative
// to its own base.
func (c *Client) ResolveImageURL(raw string) string {
	if strings.HasPrefix(raw, "/") {
		return c.base + raw
	}
	return raw
}

// DownloadImage fetches image bytes and derives a filename from the URL.
// Callers treat any failure as a cue to degrade to a text-only message.
func (c *Client) DownloadImage(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("strapi: build image request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("strapi: fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", &RemoteError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("strapi: read image: %w", err)
	}

	filename := rawURL
	if idx := strings.LastIndex(rawURL, "/"); idx >= 0 {
		filename = rawURL[idx+1:]
	}
	if filename == "" {
		filename = "image.jpg"
	}
	return data, filename, nil
}
