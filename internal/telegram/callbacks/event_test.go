package callbacks

import (
	"errors"
	"testing"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		in, unique, payload string
	}{
		{"\fproduct|12:abc", "product", "12:abc"},
		{"\\fmycart|", "mycart", ""},
		{"checkout", "checkout", ""},
		{"\fcart_remove|3", "cart_remove", "3"},
	}
	for _, tc := range cases {
		u, p := Split(tc.in)
		if u != tc.unique || p != tc.payload {
			t.Fatalf("Split(%q) = %q, %q; want %q, %q", tc.in, u, p, tc.unique, tc.payload)
		}
	}
}

func TestDecodeKnown(t *testing.T) {
	ev, err := Decode("product", "17:abc123")
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if ev.Kind != KindProduct || ev.ProductID != 17 || ev.DocumentID != "abc123" {
		t.Fatalf("product event = %+v", ev)
	}

	ev, err = Decode("product", "17")
	if err != nil {
		t.Fatalf("product without document: %v", err)
	}
	if ev.DocumentID != "17" {
		t.Fatalf("document fallback = %q, want numeric id", ev.DocumentID)
	}

	ev, err = Decode("addcart", "42")
	if err != nil {
		t.Fatalf("addcart: %v", err)
	}
	if ev.Kind != KindAddCart || ev.ProductID != 42 {
		t.Fatalf("addcart event = %+v", ev)
	}

	ev, err = Decode("cart_remove", "0")
	if err != nil {
		t.Fatalf("cart_remove: %v", err)
	}
	if ev.Kind != KindCartRemove || ev.Index != 0 {
		t.Fatalf("cart_remove event = %+v", ev)
	}

	for unique, kind := range map[string]Kind{
		"mycart":       KindMyCart,
		"checkout":     KindCheckout,
		"back_to_list": KindBackToList,
	} {
		ev, err := Decode(unique, "")
		if err != nil {
			t.Fatalf("%s: %v", unique, err)
		}
		if ev.Kind != kind {
			t.Fatalf("%s kind = %v, want %v", unique, ev.Kind, kind)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, tc := range []struct{ unique, payload string }{
		{"cart_remove", "abc"},
		{"cart_remove", ""},
		{"product", "x:doc"},
		{"addcart", "12.5x"},
	} {
		if _, err := Decode(tc.unique, tc.payload); !errors.Is(err, ErrBadPayload) {
			t.Fatalf("Decode(%q, %q) err = %v, want ErrBadPayload", tc.unique, tc.payload, err)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	ev, err := Decode("mystery", "77")
	if err != nil {
		t.Fatalf("unknown unique must not error: %v", err)
	}
	if ev.Kind != KindUnknown || ev.Raw != "mystery|77" {
		t.Fatalf("unknown event = %+v", ev)
	}
}
