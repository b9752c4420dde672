// Package shop implements the storefront operations on top of the content
// backend: cart edits expressed as read-then-full-replace, and client email
// capture. The backend only supports whole-list PUT for cart items, so every
// incremental edit rebuilds the complete list.
package shop

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Evst404/Sale-fish-tgbot/internal/logger"
	"github.com/Evst404/Sale-fish-tgbot/internal/strapi"
)

var (
	// ErrItemNotFound is returned when a removal addresses a position that
	// does not exist; no write is issued in that case.
	ErrItemNotFound = errors.New("shop: cart item not found")

	// ErrInvalidEmail is returned for free text that cannot be an email.
	ErrInvalidEmail = errors.New("shop: invalid email")
)

// ContentStore is the slice of the strapi client the service depends on.
type ContentStore interface {
	CartByTelegramID(ctx context.Context, userID int64) (*strapi.Cart, error)
	CreateCart(ctx context.Context, userID int64, items []strapi.ItemInput) error
	ReplaceCartItems(ctx context.Context, cartDocID string, items []strapi.ItemInput) error
	ClientByTelegramID(ctx context.Context, userID int64) (*strapi.ClientRecord, error)
	CreateClient(ctx context.Context, userID int64, email string) error
	UpdateClient(ctx context.Context, clientDocID, email string) error
}

// Service bundles cart synchronization and client upsert logic.
type Service struct {
	store ContentStore
}

// NewService constructs a Service over the given content store.
func NewService(store ContentStore) *Service {
	return &Service{store: store}
}

// AddItem appends one product to the user's cart. Without an existing cart a
// new one is created holding exactly the new item; otherwise the current
// item list is rebuilt, the new entry appended last, and the whole list
// replaced.
func (s *Service) AddItem(ctx context.Context, userID, productID int64, qty float64) error {
	cart, err := s.store.CartByTelegramID(ctx, userID)
	if err != nil {
		return err
	}

	entry := strapi.ItemInput{Product: productID, Quantity: qty}

	if cart == nil {
		if err := s.store.CreateCart(ctx, userID, []strapi.ItemInput{entry}); err != nil {
			return err
		}
		logger.Info(ctx, "service.carts", "cart.create",
			slog.Int64("user_id", userID),
			slog.Int64("product_id", productID),
		)
		return nil
	}

	items := rebuildItems(cart.Items, -1)
	items = append(items, entry)
	if err := s.store.ReplaceCartItems(ctx, cart.DocID(), items); err != nil {
		return err
	}
	logger.Info(ctx, "service.carts", "cart.add",
		slog.Int64("user_id", userID),
		slog.Int64("product_id", productID),
		slog.Int("items", len(items)),
	)
	return nil
}

// RemoveItem deletes the item at the given zero-based position and replaces
// the list. A missing cart or an out-of-range index yields ErrItemNotFound
// and issues no write.
func (s *Service) RemoveItem(ctx context.Context, userID int64, index int) error {
	cart, err := s.store.CartByTelegramID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil || index < 0 || index >= len(cart.Items) {
		return ErrItemNotFound
	}

	items := rebuildItems(cart.Items, index)
	if err := s.store.ReplaceCartItems(ctx, cart.DocID(), items); err != nil {
		return err
	}
	logger.Info(ctx, "service.carts", "cart.remove",
		slog.Int64("user_id", userID),
		slog.Int("index", index),
		slog.Int("items", len(items)),
	)
	return nil
}

// Cart returns the user's cart with nested products populated, or nil.
func (s *Service) Cart(ctx context.Context, userID int64) (*strapi.Cart, error) {
	return s.store.CartByTelegramID(ctx, userID)
}

// UpsertEmail stores the checkout email: the client record is created on
// first capture and only its email field updated afterwards.
func (s *Service) UpsertEmail(ctx context.Context, userID int64, email string) error {
	email = strings.TrimSpace(email)
	if !plausibleEmail(email) {
		return ErrInvalidEmail
	}

	existing, err := s.store.ClientByTelegramID(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := s.store.CreateClient(ctx, userID, email); err != nil {
			return err
		}
		logger.Info(ctx, "service.clients", "client.create",
			slog.Int64("user_id", userID),
		)
		return nil
	}

	if err := s.store.UpdateClient(ctx, existing.DocID(), email); err != nil {
		return err
	}
	logger.Info(ctx, "service.clients", "client.update",
		slog.Int64("user_id", userID),
	)
	return nil
}

// rebuildItems converts populated cart items back into write-side inputs,
// skipping the given index (-1 keeps everything). Items whose product
// relation did not resolve are dropped: their foreign key is gone and the
// backend would reject it on the replace write anyway.
func rebuildItems(items []strapi.CartItem, skip int) []strapi.ItemInput {
	out := make([]strapi.ItemInput, 0, len(items))
	for i, item := range items {
		if i == skip {
			continue
		}
		if item.Product == nil {
			continue
		}
		out = append(out, strapi.ItemInput{
			Product:  item.Product.ID,
			Quantity: item.Qty(),
		})
	}
	return out
}

func plausibleEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}
