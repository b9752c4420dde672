package strapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

// CartByTelegramID returns the user's cart with items and nested products
// populated, or nil when the user has no cart yet.
func (c *Client) CartByTelegramID(ctx context.Context, userID int64) (*Cart, error) {
	query := url.Values{
		"filters[telegram_id][$eq]":          []string{strconv.FormatInt(userID, 10)},
		"populate[items][populate][product]": []string{"true"},
	}

	var resp envelope[[]Cart]
	if err := c.do(ctx, http.MethodGet, c.base+"/api/carts", query, c.tokenAuth, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

// CreateCart creates the user's cart with the given initial items. The
// backend keeps carts unique per user; a 409 maps to ErrConflict.
func (c *Client) CreateCart(ctx context.Context, userID int64, items []ItemInput) error {
	body := payload{Data: map[string]any{
		"telegram_id": strconv.FormatInt(userID, 10),
		"items":       items,
	}}
	err := c.do(ctx, http.MethodPost, c.base+"/api/carts", nil, c.tokenAuth, body, nil)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.Status == http.StatusConflict {
			return ErrConflict
		}
		return err
	}
	return nil
}

// ReplaceCartItems overwrites the cart's whole item list. The backend has
// no partial update; every edit goes through this full replace.
func (c *Client) ReplaceCartItems(ctx context.Context, cartDocID string, items []ItemInput) error {
	body := payload{Data: map[string]any{"items": items}}
	u := c.base + "/api/carts/" + url.PathEscape(cartDocID)
	return c.do(ctx, http.MethodPut, u, nil, c.tokenAuth, body, nil)
}
