package enrichment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newChatServer fakes a chat-completions endpoint that always answers with
// the given content.
func newChatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			t.Error("expected Authorization header")
		}

		var payload struct {
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("bad request payload: %v", err)
		}
		if len(payload.Messages) != 2 {
			t.Errorf("expected system+user messages, got %d", len(payload.Messages))
		}

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newFailingChatServer(status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
}

func testLLMClient(baseURL string) *LLMClient {
	return NewLLMClient(LLMConfig{APIKey: "key", BaseURL: baseURL, Model: "gpt-4"})
}
