package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSend(t *testing.T) {
	var got SendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/send" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Send(context.Background(), "cart_reminder_first", "cust-1", map[string]interface{}{
		"cart_total": 120.0,
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.TemplateID != "cart_reminder_first" || got.Recipient != "cust-1" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Variables["cart_total"] != 120.0 {
		t.Fatalf("unexpected variables: %+v", got.Variables)
	}
}

func TestSendRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Send(context.Background(), "cart_reminder_first", "cust-1", nil)
	if err == nil {
		t.Fatal("expected an error on a 5xx response")
	}
}

func TestSendWithoutRelay(t *testing.T) {
	client := NewClient("", time.Second)
	err := client.Send(context.Background(), "cart_reminder_first", "cust-1", nil)
	if err == nil {
		t.Fatal("expected an error when no relay is configured")
	}
}
