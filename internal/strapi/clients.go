package strapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ClientByTelegramID returns the client record of the user, or nil when the
// user has never submitted an email.
func (c *Client) ClientByTelegramID(ctx context.Context, userID int64) (*ClientRecord, error) {
	query := url.Values{
		"filters[telegram_id][$eq]": []string{strconv.FormatInt(userID, 10)},
	}

	var resp envelope[[]ClientRecord]
	if err := c.do(ctx, http.MethodGet, c.base+"/api/clients", query, c.tokenAuth, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}

// CreateClient stores a new client record with the captured email.
func (c *Client) CreateClient(ctx context.Context, userID int64, email string) error {
	body := payload{Data: map[string]any{
		"telegram_id": strconv.FormatInt(userID, 10),
		"email":       email,
	}}
	return c.do(ctx, http.MethodPost, c.base+"/api/clients", nil, c.tokenAuth, body, nil)
}

// UpdateClient replaces only the email field of an existing client record.
func (c *Client) UpdateClient(ctx context.Context, clientDocID, email string) error {
	body := payload{Data: map[string]any{"email": email}}
	u := c.base + "/api/clients/" + url.PathEscape(clientDocID)
	return c.do(ctx, http.MethodPut, u, nil, c.tokenAuth, body, nil)
}
