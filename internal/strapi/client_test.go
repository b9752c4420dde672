package strapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Evst404/Sale-fish-tgbot/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler, cfg config.StrapiConfig) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg.URLBase = srv.URL
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 10
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func TestProductsUsesReadTokenAndEnvelope(t *testing.T) {
	var gotAuth, gotPopulate string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotPopulate = r.URL.Query().Get("populate")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 7, "documentId": "doc7", "title": "Салмон", "price": 12.5},
			},
		})
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{
		TokenRead:  "read-token",
		TokenWrite: "write-token",
	})

	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	// Catalog listing must use the read token even when a write token exists.
	if gotAuth != "Bearer read-token" {
		t.Fatalf("auth = %q, want read token", gotAuth)
	}
	if gotPopulate != "*" {
		t.Fatalf("populate = %q, want *", gotPopulate)
	}
	if len(products) != 1 || products[0].ID != 7 || products[0].DocumentID != "doc7" {
		t.Fatalf("unexpected products: %+v", products)
	}
	if products[0].Price == nil || *products[0].Price != 12.5 {
		t.Fatalf("price not decoded: %+v", products[0])
	}
}

func TestProductsEmptyEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null}`))
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{})

	products, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected empty list, got %+v", products)
	}
}

func TestProductsURLOverrideKeepsQuery(t *testing.T) {
	var gotQuery map[string][]string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"data": []}`))
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.StrapiConfig{
		URLBase:        srv.URL,
		ProductsURL:    srv.URL + "/api/products?populate=picture&locale=ru",
		TimeoutSeconds: 10,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Products(context.Background()); err != nil {
		t.Fatalf("products: %v", err)
	}
	if got := gotQuery["populate"]; len(got) != 1 || got[0] != "picture" {
		t.Fatalf("populate = %v", gotQuery)
	}
	if got := gotQuery["locale"]; len(got) != 1 || got[0] != "ru" {
		t.Fatalf("locale = %v", gotQuery)
	}
}

func TestProductNotFoundVersusRemoteError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/api/products/broken":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		default:
			_, _ = w.Write([]byte(`{"data": {"id": 1, "documentId": "doc1", "title": "Щука"}}`))
		}
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{})
	ctx := context.Background()

	if _, err := c.Product(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 must map to ErrNotFound, got %v", err)
	}

	_, err := c.Product(ctx, "broken")
	var re *RemoteError
	if !errors.As(err, &re) || re.Status != http.StatusBadGateway {
		t.Fatalf("502 must map to RemoteError, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("RemoteError must not match ErrNotFound")
	}

	p, err := c.Product(ctx, "doc1")
	if err != nil || p == nil || p.Title != "Щука" {
		t.Fatalf("product = %+v, err = %v", p, err)
	}
}

func TestCreateCartConflictAndBodyShape(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/carts" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"id": 1}}`))
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{
		TokenRead:  "read-token",
		TokenWrite: "write-token",
	})
	ctx := context.Background()

	err := c.CreateCart(ctx, 99, []ItemInput{{Product: 7, Quantity: 1}})
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	// Cart writes must prefer the write-scoped token.
	if gotAuth != "Bearer write-token" {
		t.Fatalf("auth = %q, want write token", gotAuth)
	}
	data, _ := gotBody["data"].(map[string]any)
	if data["telegram_id"] != "99" {
		t.Fatalf("telegram_id = %v, want \"99\"", data["telegram_id"])
	}
	items, _ := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v", data["items"])
	}

	if err := c.CreateCart(ctx, 99, nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("409 must map to ErrConflict, got %v", err)
	}
}

func TestCartByTelegramIDFilterAndPopulate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("filters[telegram_id][$eq]"); got != "42" {
			t.Errorf("filter = %q", got)
		}
		if got := q.Get("populate[items][populate][product]"); got != "true" {
			t.Errorf("populate = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer only-read" {
			t.Errorf("auth = %q, want read token fallback", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"id":          3,
				"documentId":  "cart3",
				"telegram_id": "42",
				"items": []map[string]any{
					{"quantity": 2, "product": map[string]any{"id": 7, "title": "Форель"}},
					{"quantity": nil, "product": nil},
				},
			}},
		})
	})
	// Without a write token, cart access falls back to the read token.
	c, _ := newTestClient(t, handler, config.StrapiConfig{TokenRead: "only-read"})

	cart, err := c.CartByTelegramID(context.Background(), 42)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if cart == nil || cart.DocID() != "cart3" || len(cart.Items) != 2 {
		t.Fatalf("cart = %+v", cart)
	}
	if cart.Items[0].Qty() != 2 {
		t.Fatalf("qty = %v, want 2", cart.Items[0].Qty())
	}
	if cart.Items[1].Qty() != 1 {
		t.Fatalf("absent quantity must default to 1, got %v", cart.Items[1].Qty())
	}
	if cart.Items[1].Product != nil {
		t.Fatal("null product relation must decode to nil")
	}
}

func TestCartByTelegramIDNone(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{})

	cart, err := c.CartByTelegramID(context.Background(), 42)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if cart != nil {
		t.Fatalf("expected nil cart, got %+v", cart)
	}
}

func TestReplaceCartItemsPut(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"data": {}}`))
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{})

	err := c.ReplaceCartItems(context.Background(), "cart3", []ItemInput{
		{Product: 7, Quantity: 1},
		{Product: 8, Quantity: 2.5},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/carts/cart3" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
	data, _ := gotBody["data"].(map[string]any)
	items, _ := data["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %v", data["items"])
	}
}

func TestUpdateClientSendsOnlyEmail(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"data": {}}`))
	})
	c, _ := newTestClient(t, handler, config.StrapiConfig{})

	if err := c.UpdateClient(context.Background(), "cl9", "a@b.com"); err != nil {
		t.Fatalf("update client: %v", err)
	}
	if gotPath != "/api/clients/cl9" {
		t.Fatalf("path = %s", gotPath)
	}
	data, _ := gotBody["data"].(map[string]any)
	if len(data) != 1 || data["email"] != "a@b.com" {
		t.Fatalf("body = %v, want email only", data)
	}
}

func TestResolveImageURL(t *testing.T) {
	c := &Client{base: "http://cms.local:1337"}
	if got := c.ResolveImageURL("/uploads/fish.jpg"); got != "http://cms.local:1337/uploads/fish.jpg" {
		t.Fatalf("relative url = %q", got)
	}
	if got := c.ResolveImageURL("https://cdn.example.com/fish.jpg"); got != "https://cdn.example.com/fish.jpg" {
		t.Fatalf("absolute url changed: %q", got)
	}
}

func TestDownloadImage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/uploads/gone.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("jpeg-bytes"))
	})
	c, srv := newTestClient(t, handler, config.StrapiConfig{})
	ctx := context.Background()

	data, name, err := c.DownloadImage(ctx, srv.URL+"/uploads/fish.jpg")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "jpeg-bytes" || name != "fish.jpg" {
		t.Fatalf("data=%q name=%q", data, name)
	}

	if _, _, err := c.DownloadImage(ctx, srv.URL+"/uploads/gone.jpg"); err == nil {
		t.Fatal("expected error for missing image")
	}
}
