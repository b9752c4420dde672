package strapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Products lists the catalog using the read-scoped token. An empty or
// missing data envelope yields an empty slice.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp envelope[[]Product]
	if err := c.do(ctx, http.MethodGet, c.productsURL, c.productsQuery, c.tokenRead, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Product fetches a single product by its document (or numeric) identifier
// with full population. A 404 maps to ErrNotFound; other failures propagate.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	u := c.base + "/api/products/" + url.PathEscape(id)
	query := url.Values{"populate": []string{"*"}}

	var resp envelope[*Product]
	err := c.do(ctx, http.MethodGet, u, query, c.tokenRead, nil, &resp)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if resp.Data == nil {
		return nil, ErrNotFound
	}
	return resp.Data, nil
}
