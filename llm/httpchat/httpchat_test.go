package httpchat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/curvewatch/curvewatch/llm"
	"github.com/curvewatch/curvewatch/llm/httpchat"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *httpchat.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return httpchat.New(httpchat.Config{
		Name:    "piapi",
		APIKey:  "test-key",
		KeyEnv:  "PIAPI_API_KEY",
		Model:   "gpt-4o-mini",
		BaseURL: srv.URL,
	})
}

func TestComplete_Success(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"hello"}}]}`))
	})

	out, err := c.Complete(context.Background(), llm.Request{
		System:      "you are a rates analyst",
		User:        "summarize the day",
		Temperature: llm.Float(0.3),
		MaxTokens:   1600,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hello" {
		t.Errorf("out = %q, want %q", out, "hello")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}

	// Generation parameters pass through verbatim.
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotBody["temperature"])
	}
	if gotBody["max_tokens"] != float64(1600) {
		t.Errorf("max_tokens = %v, want 1600", gotBody["max_tokens"])
	}

	msgs, ok := gotBody["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages = %v, want 2-message conversation", gotBody["messages"])
	}
	first := msgs[0].(map[string]any)
	second := msgs[1].(map[string]any)
	if first["role"] != "system" || first["content"] != "you are a rates analyst" {
		t.Errorf("first message = %v", first)
	}
	if second["role"] != "user" || second["content"] != "summarize the day" {
		t.Errorf("second message = %v", second)
	}
}

func TestComplete_MissingCredential(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := httpchat.New(httpchat.Config{
		Name:    "deepseek",
		KeyEnv:  "DEEPSEEK_API_KEY",
		Model:   "deepseek-chat",
		BaseURL: srv.URL,
	})

	_, err := c.Complete(context.Background(), llm.Request{System: "s", User: "u"})
	if !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
	if !strings.Contains(err.Error(), "DEEPSEEK_API_KEY") {
		t.Errorf("err %q does not name the credential variable", err)
	}
	if called {
		t.Error("network call was made despite missing credential")
	}
}

func TestComplete_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"upstream exploded"}`, http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), llm.Request{System: "s", User: "u"})
	if err == nil {
		t.Fatal("Complete succeeded, want HTTP error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("err %q missing status or body", err)
	}
}

func TestComplete_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty choices", `{"choices":[]}`},
		{"missing content", `{"choices":[{"message":{}}]}`},
		{"not json", `<html>gateway timeout</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), llm.Request{System: "s", User: "u"})
			if err == nil {
				t.Fatal("Complete succeeded, want malformed-response error")
			}
			// The raw response rides along for diagnosis.
			if !strings.Contains(err.Error(), tt.body) {
				t.Errorf("err %q does not include raw response", err)
			}
		})
	}
}
