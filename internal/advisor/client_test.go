package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestParseMove(t *testing.T) {
	cases := []struct {
		in   string
		want Move
		ok   bool
	}{
		{"Hit", MoveHit, true},
		{"Stand", MoveStand, true},
		{" hit\n", MoveHit, true},
		{`"Stand"`, MoveStand, true},
		{"Stand.", MoveStand, true},
		{"Stand, because the dealer shows a 6.", MoveStand, true},
		{"Double down", "", false},
		{"", "", false},
		{"unknown", "", false},
	}
	for _, tc := range cases {
		got, ok := parseMove(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseMove(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func geminiReply(text string) []byte {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	}
	b, _ := json.Marshal(resp)
	return b
}

func TestSuggest(t *testing.T) {
	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(geminiReply("Hit"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	move, err := c.Suggest(context.Background(), []string{"A", "6"}, "10")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if move != MoveHit {
		t.Fatalf("move = %q, want hit", move)
	}
	if gotKey.Load() != "test-key" {
		t.Fatalf("api key header not sent, got %v", gotKey.Load())
	}
}

func TestSuggestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(geminiReply("Stand"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", WithRetry(3))
	move, err := c.Suggest(context.Background(), []string{"10", "9"}, "6")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if move != MoveStand {
		t.Fatalf("move = %q, want stand", move)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls (one retry), got %d", calls.Load())
	}
}

func TestSuggestUnparseableAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(geminiReply("Split your hand"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.Suggest(context.Background(), []string{"8", "8"}, "5"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSuggestWithoutAPIKey(t *testing.T) {
	c := NewClient("http://localhost:1", "")
	if _, err := c.Suggest(context.Background(), []string{"2", "3"}, "4"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable without key, got %v", err)
	}
}
