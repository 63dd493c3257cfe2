package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/config"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

func TestSendTicketNotification(t *testing.T) {
	var got emailRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/emails" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewEmailService(config.EmailConfig{
		APIURL: server.URL,
		APIKey: "re_test_key",
		From:   "Harbor Group <notifications@harborgroup.example>",
	}, zap.NewNop())

	err := svc.SendTicketNotification(context.Background(), "member@harbor.example", "Dock light", "Your ticket was updated.")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if auth != "Bearer re_test_key" {
		t.Fatalf("authorization = %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "member@harbor.example" {
		t.Fatalf("to = %v", got.To)
	}
	if got.Subject != "Ticket Update: Dock light" {
		t.Fatalf("subject = %q", got.Subject)
	}
	if !strings.Contains(got.HTML, "Your ticket was updated.") || !strings.Contains(got.HTML, "<strong>Dock light</strong>") {
		t.Fatalf("rendered template missing content:\n%s", got.HTML)
	}
}

func TestSendDeliveryError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream rejected", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewEmailService(config.EmailConfig{APIURL: server.URL, APIKey: "k", From: "f@x"}, zap.NewNop())

	err := svc.Send(context.Background(), "member@harbor.example", "s", "<p>b</p>")
	if !apperr.IsKind(err, apperr.KindDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestSendUnreachableAPI(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{APIURL: "http://127.0.0.1:1", APIKey: "k", From: "f@x"}, zap.NewNop())

	err := svc.Send(context.Background(), "member@harbor.example", "s", "<p>b</p>")
	if !apperr.IsKind(err, apperr.KindDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}
