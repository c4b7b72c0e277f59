package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
	"github.com/marcuslira2/task-manager-front/internal/httpx"
)

func newTestClient(t *testing.T, baseURL string) *httpx.Client {
	t.Helper()
	client, err := httpx.New(baseURL, 5*time.Second, 0, 0, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestDo_SetsHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	resp, err := client.Do(context.Background(), http.MethodPost, "/tasks", nil, map[string]string{"a": "b"}, "Bearer tok")
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok" {
		t.Errorf("Expected Authorization header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
	if gotContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotContentType)
	}
}

func TestDo_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := newTestClient(t, srv.URL)
	_, err := client.Do(context.Background(), http.MethodGet, "/tasks", nil, nil, "")
	if !errors.Is(err, apierr.ErrUnreachable) {
		t.Errorf("Expected ErrUnreachable, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"message":"task not found"}`, "task not found"},
		{`{"error":"rate limit exceeded"}`, "rate limit exceeded"},
		{`plain text failure`, "plain text failure"},
		{`{}`, ""},
	}
	for _, tc := range cases {
		if got := httpx.Message(tc.body); got != tc.want {
			t.Errorf("Message(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
