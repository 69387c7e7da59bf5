package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatJSON(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestCompleteSendsStructuredOutputRequest(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, chatJSON(`{"job_title":"Nurse"}`))
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "test-key", "gpt-4o-mini", server.Client())
	out, err := p.Complete(context.Background(), "Title: Nurse")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"job_title":"Nurse"}` {
		t.Errorf("output = %q", out)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Temperature != 0 {
		t.Errorf("temperature = %d, want 0", captured.Temperature)
	}
	if captured.ResponseFormat.Type != "json_schema" {
		t.Errorf("response_format type = %q", captured.ResponseFormat.Type)
	}
	if !captured.ResponseFormat.JSONSchema.Strict {
		t.Error("expected strict schema mode")
	}
	if captured.ResponseFormat.JSONSchema.Name != "job_extraction" {
		t.Errorf("schema name = %q", captured.ResponseFormat.JSONSchema.Name)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[0].Content, "job_category") {
		t.Error("system prompt missing category instructions")
	}
	if captured.Messages[1].Content != "Title: Nurse" {
		t.Errorf("user message = %q", captured.Messages[1].Content)
	}
}

func TestCompleteHTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "k", "gpt-4o-mini", server.Client())
	if _, err := p.Complete(context.Background(), "text"); err == nil {
		t.Fatal("expected error on HTTP 429")
	}
}

func TestCompleteAPIErrorObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"message":"invalid key","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "k", "gpt-4o-mini", server.Client())
	_, err := p.Complete(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("err = %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider(server.URL, "k", "gpt-4o-mini", server.Client())
	if _, err := p.Complete(context.Background(), "text"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
