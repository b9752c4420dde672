// Package callbacks decodes inline button payloads into typed events once at
// the transport boundary, so handlers dispatch on event kinds instead of
// re-parsing strings.
package callbacks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Button uniques shared between keyboard builders and the decoder.
const (
	UniqueProduct    = "product"
	UniqueAddCart    = "addcart"
	UniqueMyCart     = "mycart"
	UniqueCartRemove = "cart_remove"
	UniqueCheckout   = "checkout"
	UniqueBackToList = "back_to_list"
)

// ErrBadPayload marks a syntactically invalid button payload.
var ErrBadPayload = errors.New("callbacks: bad payload")

// Kind enumerates the button events the storefront understands.
type Kind int

const (
	// KindUnknown carries an unrecognized payload verbatim.
	KindUnknown Kind = iota
	// KindBackToList returns to the product menu.
	KindBackToList
	// KindMyCart shows the cart.
	KindMyCart
	// KindCheckout starts email capture.
	KindCheckout
	// KindCartRemove removes the cart item at Index.
	KindCartRemove
	// KindProduct shows the detail card for one product.
	KindProduct
	// KindAddCart puts one product into the cart.
	KindAddCart
)

// Event is one decoded button press.
type Event struct {
	Kind Kind
	// Raw is the original payload, kept for the unknown-button echo.
	Raw string
	// Index addresses a cart position for KindCartRemove (zero-based).
	Index int
	// ProductID is set for KindProduct and KindAddCart.
	ProductID int64
	// DocumentID is set for KindProduct.
	DocumentID string
}

// Split separates telebot's <unique>|<payload> callback encoding.
func Split(data string) (string, string) {
	raw := strings.TrimPrefix(data, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// FromContext decodes the callback carried by the telebot context.
func FromContext(c tele.Context) (Event, error) {
	cb := c.Callback()
	if cb == nil {
		return Event{}, fmt.Errorf("%w: no callback", ErrBadPayload)
	}
	unique, payload := Split(cb.Data)
	if cb.Unique != "" {
		unique = cb.Unique
		payload = cb.Data
	}
	return Decode(unique, payload)
}

// Decode maps a button unique plus payload to a typed event. Unrecognized
// uniques produce KindUnknown; malformed payloads of known uniques fail with
// an event that still carries the kind, so callers can pick an answer text.
func Decode(unique, payload string) (Event, error) {
	switch unique {
	case UniqueBackToList:
		return Event{Kind: KindBackToList}, nil
	case UniqueMyCart:
		return Event{Kind: KindMyCart}, nil
	case UniqueCheckout:
		return Event{Kind: KindCheckout}, nil
	case UniqueCartRemove:
		idx, err := strconv.Atoi(strings.TrimSpace(payload))
		if err != nil {
			return Event{Kind: KindCartRemove}, fmt.Errorf("%w: cart index %q", ErrBadPayload, payload)
		}
		return Event{Kind: KindCartRemove, Index: idx}, nil
	case UniqueProduct:
		numeric, doc, _ := strings.Cut(payload, ":")
		id, err := strconv.ParseInt(strings.TrimSpace(numeric), 10, 64)
		if err != nil {
			return Event{Kind: KindProduct}, fmt.Errorf("%w: product id %q", ErrBadPayload, payload)
		}
		if doc == "" {
			doc = strings.TrimSpace(numeric)
		}
		return Event{Kind: KindProduct, ProductID: id, DocumentID: doc}, nil
	case UniqueAddCart:
		id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64)
		if err != nil {
			return Event{Kind: KindAddCart}, fmt.Errorf("%w: product id %q", ErrBadPayload, payload)
		}
		return Event{Kind: KindAddCart, ProductID: id}, nil
	}

	raw := unique
	if payload != "" {
		raw = unique + "|" + payload
	}
	return Event{Kind: KindUnknown, Raw: raw}, nil
}
