package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/Evst404/Sale-fish-tgbot/internal/strapi"
)

// fakeStore records write calls and serves a canned cart/client.
type fakeStore struct {
	cart   *strapi.Cart
	client *strapi.ClientRecord

	createCalls  int
	createItems  []strapi.ItemInput
	replaceCalls int
	replaceDocID string
	replaceItems []strapi.ItemInput

	clientCreates int
	clientUpdates int
	updatedDocID  string
	updatedEmail  string
	createdEmail  string
}

func (f *fakeStore) CartByTelegramID(_ context.Context, _ int64) (*strapi.Cart, error) {
	return f.cart, nil
}

func (f *fakeStore) CreateCart(_ context.Context, _ int64, items []strapi.ItemInput) error {
	f.createCalls++
	f.createItems = items
	return nil
}

func (f *fakeStore) ReplaceCartItems(_ context.Context, docID string, items []strapi.ItemInput) error {
	f.replaceCalls++
	f.replaceDocID = docID
	f.replaceItems = items
	return nil
}

func (f *fakeStore) ClientByTelegramID(_ context.Context, _ int64) (*strapi.ClientRecord, error) {
	return f.client, nil
}

func (f *fakeStore) CreateClient(_ context.Context, _ int64, email string) error {
	f.clientCreates++
	f.createdEmail = email
	return nil
}

func (f *fakeStore) UpdateClient(_ context.Context, docID, email string) error {
	f.clientUpdates++
	f.updatedDocID = docID
	f.updatedEmail = email
	return nil
}

func qty(v float64) *float64 { return &v }

func cartWith(items ...strapi.CartItem) *strapi.Cart {
	return &strapi.Cart{ID: 3, DocumentID: "cart3", TelegramID: "42", Items: items}
}

func TestAddItemCreatesCartWhenAbsent(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	if err := svc.AddItem(context.Background(), 42, 7, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.createCalls != 1 || store.replaceCalls != 0 {
		t.Fatalf("creates=%d replaces=%d, want exactly one create", store.createCalls, store.replaceCalls)
	}
	if len(store.createItems) != 1 || store.createItems[0] != (strapi.ItemInput{Product: 7, Quantity: 1}) {
		t.Fatalf("create items = %+v", store.createItems)
	}
}

func TestAddItemAppendsToExistingCart(t *testing.T) {
	store := &fakeStore{cart: cartWith(
		strapi.CartItem{Quantity: qty(2), Product: &strapi.Product{ID: 5}},
		strapi.CartItem{Product: &strapi.Product{ID: 6}},
	)}
	svc := NewService(store)

	if err := svc.AddItem(context.Background(), 42, 7, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if store.createCalls != 0 || store.replaceCalls != 1 {
		t.Fatalf("creates=%d replaces=%d, want exactly one replace", store.createCalls, store.replaceCalls)
	}
	if store.replaceDocID != "cart3" {
		t.Fatalf("doc id = %q", store.replaceDocID)
	}
	want := []strapi.ItemInput{
		{Product: 5, Quantity: 2},
		{Product: 6, Quantity: 1}, // missing quantity defaults to 1
		{Product: 7, Quantity: 1}, // new entry appended last
	}
	if len(store.replaceItems) != len(want) {
		t.Fatalf("items = %+v", store.replaceItems)
	}
	for i := range want {
		if store.replaceItems[i] != want[i] {
			t.Fatalf("item %d = %+v, want %+v", i, store.replaceItems[i], want[i])
		}
	}
}

func TestAddItemDropsUnresolvedProducts(t *testing.T) {
	store := &fakeStore{cart: cartWith(
		strapi.CartItem{Quantity: qty(1), Product: &strapi.Product{ID: 5}},
		strapi.CartItem{Quantity: qty(3), Product: nil}, // deleted product
	)}
	svc := NewService(store)

	if err := svc.AddItem(context.Background(), 42, 7, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	want := []strapi.ItemInput{{Product: 5, Quantity: 1}, {Product: 7, Quantity: 1}}
	if len(store.replaceItems) != len(want) {
		t.Fatalf("unresolved item must be dropped, got %+v", store.replaceItems)
	}
}

func TestRemoveItemKeepsOrder(t *testing.T) {
	store := &fakeStore{cart: cartWith(
		strapi.CartItem{Quantity: qty(1), Product: &strapi.Product{ID: 5}},
		strapi.CartItem{Quantity: qty(2), Product: &strapi.Product{ID: 6}},
		strapi.CartItem{Quantity: qty(3), Product: &strapi.Product{ID: 7}},
	)}
	svc := NewService(store)

	if err := svc.RemoveItem(context.Background(), 42, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []strapi.ItemInput{{Product: 5, Quantity: 1}, {Product: 7, Quantity: 3}}
	if len(store.replaceItems) != len(want) {
		t.Fatalf("items = %+v", store.replaceItems)
	}
	for i := range want {
		if store.replaceItems[i] != want[i] {
			t.Fatalf("item %d = %+v, want %+v", i, store.replaceItems[i], want[i])
		}
	}
}

func TestRemoveItemDropsUnresolvedRegardlessOfIndex(t *testing.T) {
	store := &fakeStore{cart: cartWith(
		strapi.CartItem{Quantity: qty(1), Product: &strapi.Product{ID: 5}},
		strapi.CartItem{Quantity: qty(2), Product: nil},
		strapi.CartItem{Quantity: qty(3), Product: &strapi.Product{ID: 7}},
	)}
	svc := NewService(store)

	// Removing index 2 must also drop the unresolved item at index 1.
	if err := svc.RemoveItem(context.Background(), 42, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	want := []strapi.ItemInput{{Product: 5, Quantity: 1}}
	if len(store.replaceItems) != 1 || store.replaceItems[0] != want[0] {
		t.Fatalf("items = %+v, want %+v", store.replaceItems, want)
	}
}

func TestRemoveItemOutOfRangeIssuesNoWrite(t *testing.T) {
	store := &fakeStore{cart: cartWith(
		strapi.CartItem{Quantity: qty(1), Product: &strapi.Product{ID: 5}},
		strapi.CartItem{Quantity: qty(2), Product: &strapi.Product{ID: 6}},
	)}
	svc := NewService(store)

	if err := svc.RemoveItem(context.Background(), 42, 5); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
	if err := svc.RemoveItem(context.Background(), 42, -1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
	if store.replaceCalls != 0 {
		t.Fatalf("replace calls = %d, want 0", store.replaceCalls)
	}
}

func TestRemoveItemNoCart(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	if err := svc.RemoveItem(context.Background(), 42, 0); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}

func TestUpsertEmailCreateThenUpdate(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.UpsertEmail(ctx, 42, " a@b.com "); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.clientCreates != 1 || store.clientUpdates != 0 {
		t.Fatalf("creates=%d updates=%d", store.clientCreates, store.clientUpdates)
	}
	if store.createdEmail != "a@b.com" {
		t.Fatalf("email = %q, want trimmed", store.createdEmail)
	}

	store.client = &strapi.ClientRecord{ID: 9, DocumentID: "cl9", Email: "a@b.com"}
	if err := svc.UpsertEmail(ctx, 42, "new@b.com"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.clientUpdates != 1 || store.updatedDocID != "cl9" || store.updatedEmail != "new@b.com" {
		t.Fatalf("update = %d %q %q", store.clientUpdates, store.updatedDocID, store.updatedEmail)
	}
}

func TestUpsertEmailRejectsGarbage(t *testing.T) {
	svc := NewService(&fakeStore{})
	for _, bad := range []string{"", "plainaddress", "@nouser", "user@", "two words@x"} {
		if err := svc.UpsertEmail(context.Background(), 42, bad); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("UpsertEmail(%q) = %v, want ErrInvalidEmail", bad, err)
		}
	}
}
