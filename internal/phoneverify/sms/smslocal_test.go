package sms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewSMSLocalClient_Defaults(t *testing.T) {
	client := NewSMSLocalClient("api-key", "", "")
	if client.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q, want default", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should be set")
	}
	if client.HTTPClient.Timeout != defaultTimeout {
		t.Errorf("HTTPClient.Timeout = %v, want %v", client.HTTPClient.Timeout, defaultTimeout)
	}
}

func TestNewSMSLocalClient_Custom(t *testing.T) {
	client := NewSMSLocalClient("api-key", "https://custom.sms.local/api", "PKNEWS")
	if client.BaseURL != "https://custom.sms.local/api" {
		t.Errorf("BaseURL = %q", client.BaseURL)
	}
	if client.Sender != "PKNEWS" {
		t.Errorf("Sender = %q, want PKNEWS", client.Sender)
	}
}

func TestSendOTP_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "test-api-key" {
			t.Errorf("Authorization = %q, want test-api-key", r.Header.Get("Authorization"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Decode body: %v", err)
		}
		if body["route"] != "otp" {
			t.Errorf("route = %v, want otp", body["route"])
		}
		if body["numbers"] != "15550100100" {
			t.Errorf("numbers = %v, want 15550100100", body["numbers"])
		}
		if body["variables"] != "123456" {
			t.Errorf("variables = %v, want 123456", body["variables"])
		}
		if body["sender_id"] != "PKNEWS" {
			t.Errorf("sender_id = %v, want PKNEWS", body["sender_id"])
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewSMSLocalClient("test-api-key", server.URL, "PKNEWS")
	if err := client.SendOTP(context.Background(), "15550100100", "123456"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
}

func TestSendOTP_OmitsEmptySender(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if err := NewSMSLocalClient("k", server.URL, "").SendOTP(context.Background(), "1", "2"); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if _, ok := body["sender_id"]; ok {
		t.Error("sender_id should be omitted when no sender is set")
	}
}

func TestSendOTP_MissingAPIKey(t *testing.T) {
	err := NewSMSLocalClient("", "", "").SendOTP(context.Background(), "15550100100", "123456")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestSendOTP_Non200Status(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusBadRequest, `{"error":"invalid request"}`, "status=400"},
		{http.StatusInternalServerError, `{"error":"server error"}`, "status=500"},
	}
	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))
		err := NewSMSLocalClient("api-key", server.URL, "").SendOTP(context.Background(), "1", "2")
		server.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("error = %q, want to contain %q", err.Error(), tt.want)
		}
		if !strings.Contains(err.Error(), tt.body) {
			t.Errorf("error = %q, want to contain response body", err.Error())
		}
	}
}

func TestSendOTP_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := NewSMSLocalClient("api-key", server.URL, "").SendOTP(ctx, "1", "2"); err == nil {
		t.Fatal("expected error when the context ends")
	}
}
