package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitialize_ReturnsRedirectURL(t *testing.T) {
	t.Parallel()

	var received initializeBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://checkout.example/sess-1"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-secret", "https://api.example/webhook", "https://app.example/return")
	session, err := client.Initialize(context.Background(), CheckoutRequest{
		TxRef:    "tx-1",
		Amount:   25,
		Currency: "USD",
		Email:    "a@example.com",
		Name:     "Abebe",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.RedirectURL != "https://checkout.example/sess-1" {
		t.Errorf("unexpected redirect url %q", session.RedirectURL)
	}
	if session.TxRef != "tx-1" {
		t.Errorf("unexpected tx ref %q", session.TxRef)
	}
	if received.Amount != "25.00" {
		t.Errorf("amount serialized as %q", received.Amount)
	}
	if received.CallbackURL != "https://api.example/webhook" {
		t.Errorf("unexpected callback url %q", received.CallbackURL)
	}
}

func TestInitialize_Failures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name: "gateway down",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: ErrUnavailable,
		},
		{
			name: "declined",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
			want: ErrDeclined,
		},
		{
			name: "failed status in body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"failed","data":{}}`))
			},
			want: ErrDeclined,
		},
		{
			name: "missing checkout url",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"success","data":{}}`))
			},
			want: ErrDeclined,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewClient(srv.URL, "test-secret", "", "")
			_, err := client.Initialize(context.Background(), CheckoutRequest{TxRef: "tx-1", Amount: 25, Currency: "USD"})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVerifyWebhook(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"event":"charge.completed","tx_ref":"tx-1","status":"success"}`)
	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write(payload)
	good := hex.EncodeToString(mac.Sum(nil))

	if err := VerifyWebhook("hook-secret", payload, good); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
	if err := VerifyWebhook("hook-secret", payload, "deadbeef"); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature, got %v", err)
	}
	if err := VerifyWebhook("hook-secret", payload, ""); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature for missing signature, got %v", err)
	}
	if err := VerifyWebhook("wrong-secret", payload, good); !errors.Is(err, ErrBadSignature) {
		t.Errorf("expected ErrBadSignature for wrong secret, got %v", err)
	}
}
