package strapi

import "strconv"

// Image is a single media entry of a product's picture relation.
type Image struct {
	URL string `json:"url"`
}

// Product is a catalog entry. The backend exposes both a numeric id and a
// stable documentId; single-entity endpoints expect the documentId.
type Product struct {
	ID          int64    `json:"id"`
	DocumentID  string   `json:"documentId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Pictures    []Image  `json:"picture"`
}

// DocID returns the identifier usable in single-entity URLs.
func (p Product) DocID() string {
	if p.DocumentID != "" {
		return p.DocumentID
	}
	return strconv.FormatInt(p.ID, 10)
}

// CartItem is one position of a cart as returned with nested population.
// Product is nil when the referenced product no longer resolves.
type CartItem struct {
	Quantity *float64 `json:"quantity"`
	Product  *Product `json:"product"`
}

// Qty returns the item quantity, defaulting to 1 when absent.
func (i CartItem) Qty() float64 {
	if i.Quantity == nil {
		return 1
	}
	return *i.Quantity
}

// Cart maps one Telegram user to an ordered list of items. The backend
// enforces at most one cart per telegram_id.
type Cart struct {
	ID         int64      `json:"id"`
	DocumentID string     `json:"documentId"`
	TelegramID string     `json:"telegram_id"`
	Items      []CartItem `json:"items"`
}

// DocID returns the identifier usable in single-entity URLs.
func (c Cart) DocID() string {
	if c.DocumentID != "" {
		return c.DocumentID
	}
	return strconv.FormatInt(c.ID, 10)
}

// ClientRecord maps one Telegram user to a captured email address.
type ClientRecord struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"documentId"`
	TelegramID string `json:"telegram_id"`
	Email      string `json:"email"`
}

// DocID returns the identifier usable in single-entity URLs.
func (r ClientRecord) DocID() string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	return strconv.FormatInt(r.ID, 10)
}

// ItemInput is the write-side shape of a cart item: a bare numeric product
// reference plus quantity. The PUT endpoint replaces the whole list.
type ItemInput struct {
	Product  int64   `json:"product"`
	Quantity float64 `json:"quantity"`
}

// envelope mirrors the backend's {"data": ...} response wrapper.
type envelope[T any] struct {
	Data T `json:"data"`
}

// payload is the write-side {"data": ...} request wrapper.
type payload struct {
	Data any `json:"data"`
}
