package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestToMinorAmount(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"125.00", 12500},
		{"0.99", 99},
		{"10", 1000},
		{"19.995", 2000},
	}
	for _, c := range cases {
		got, err := toMinorAmount(c.amount)
		if err != nil {
			t.Fatalf("toMinorAmount(%q) error: %v", c.amount, err)
		}
		if got != c.want {
			t.Fatalf("toMinorAmount(%q) = %d, want %d", c.amount, got, c.want)
		}
	}

	for _, bad := range []string{"", "abc", "0", "-1"} {
		if _, err := toMinorAmount(bad); !errors.Is(err, ErrConfigInvalid) {
			t.Fatalf("toMinorAmount(%q): expected config invalid, got: %v", bad, err)
		}
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_123" {
			t.Errorf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form failed: %v", err)
		}
		if r.PostForm.Get("amount") != "12500" {
			t.Errorf("unexpected amount: %s", r.PostForm.Get("amount"))
		}
		if r.PostForm.Get("currency") != "usd" {
			t.Errorf("unexpected currency: %s", r.PostForm.Get("currency"))
		}
		if r.PostForm.Get("metadata[order_id]") != "7" {
			t.Errorf("unexpected order metadata: %s", r.PostForm.Get("metadata[order_id]"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_payment_method"}`))
	}))
	defer server.Close()

	cfg := &Config{
		SecretKey:  "sk_test_123",
		Currency:   "USD",
		APIBaseURL: server.URL,
	}
	result, err := CreatePaymentIntent(context.Background(), cfg, CreateIntentInput{
		Amount:  "125.00",
		OrderID: 7,
		UserID:  3,
	})
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}
	if result.IntentID != "pi_123" || result.ClientSecret != "pi_123_secret" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Status != "requires_payment_method" {
		t.Fatalf("unexpected status: %s", result.Status)
	}
}

func TestCreatePaymentIntentRejectsBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer server.Close()

	cfg := &Config{SecretKey: "sk_test_123", Currency: "usd", APIBaseURL: server.URL}
	if _, err := CreatePaymentIntent(context.Background(), cfg, CreateIntentInput{Amount: "10.00"}); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected response invalid, got: %v", err)
	}
}

func TestCreatePaymentIntentRequiresSecret(t *testing.T) {
	if _, err := CreatePaymentIntent(context.Background(), &Config{}, CreateIntentInput{Amount: "10.00"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got: %v", err)
	}
}
