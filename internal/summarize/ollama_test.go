package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(endpoint string) *OllamaClient {
	return &OllamaClient{
		endpoint: endpoint,
		model:    "test-model",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestStreamDeliversChunksInOrder(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprintln(w, `{"response":"The video ","done":false}`)
		fmt.Fprintln(w, `{"response":"covers Go.","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":true}`)
	}))
	defer srv.Close()

	var chunks []string
	err := newTestClient(srv.URL).Stream(context.Background(), "a transcript", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if strings.Join(chunks, "") != "The video covers Go." {
		t.Fatalf("chunks = %+v", chunks)
	}
	if !gotReq.Stream {
		t.Fatal("request did not ask for streaming")
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("model = %q", gotReq.Model)
	}
	if !strings.Contains(gotReq.Prompt, "a transcript") {
		t.Fatalf("prompt does not embed transcript: %q", gotReq.Prompt)
	}
}

func TestStreamPropagatesModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"partial","done":false}`)
		fmt.Fprintln(w, `{"error":"model overloaded"}`)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Stream(context.Background(), "t", func(string) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("Stream() error = %v, want model error", err)
	}
}

func TestStreamTruncatedWithoutDone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"half a ","done":false}`)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Stream(context.Background(), "t", func(string) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "ended without completion") {
		t.Fatalf("Stream() error = %v, want truncation error", err)
	}
}

func TestStreamStopsOnCallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"one","done":false}`)
		fmt.Fprintln(w, `{"response":"two","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":true}`)
	}))
	defer srv.Close()

	calls := 0
	err := newTestClient(srv.URL).Stream(context.Background(), "t", func(string) error {
		calls++
		return context.Canceled
	})
	if err != context.Canceled {
		t.Fatalf("Stream() error = %v, want context.Canceled as-is", err)
	}
	if calls != 1 {
		t.Fatalf("callback calls = %d, want 1", calls)
	}
}

func TestGenerateOneShot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("one-shot request asked for streaming")
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "Full summary.", Done: true})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Generate(context.Background(), "t")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "Full summary." {
		t.Fatalf("summary = %q", got)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), "t")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("Generate() error = %v, want status error", err)
	}
}
