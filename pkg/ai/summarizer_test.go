package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

const summaryJSON = `{"summary":"Release planning.","keyDecisions":["Ship v2 Friday"],"actionItems":["Prepare release notes"]}`

func TestGeminiClient_GenerateSummary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		genCfg, _ := payload["generationConfig"].(map[string]interface{})
		if genCfg["responseMimeType"] != "application/json" {
			t.Errorf("responseMimeType = %v", genCfg["responseMimeType"])
		}
		if _, ok := genCfg["responseSchema"]; !ok {
			t.Error("responseSchema missing")
		}
		if _, ok := payload["systemInstruction"]; !ok {
			t.Error("systemInstruction missing")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": summaryJSON}},
				},
			}},
		})
	}))
	defer ts.Close()

	client, err := NewGeminiClient(context.Background(), &config.GeminiConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	got, err := client.GenerateSummary(context.Background(), "Let's ship v2 Friday.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != summaryJSON {
		t.Fatalf("unexpected text %s", got)
	}
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	client, err := NewGeminiClient(context.Background(), &config.GeminiConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.GenerateSummary(context.Background(), "hello")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("error = %v, want ErrEmptyResponse", err)
	}
}

func TestGroqClient_GenerateSummary(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": summaryJSON},
			}},
		})
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	got, err := client.GenerateSummary(context.Background(), "Let's ship v2 Friday.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != summaryJSON {
		t.Fatalf("unexpected content %s", got)
	}
}

func TestGroqClient_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewGroqClient(&config.GroqConfig{APIKey: "test-key", BaseURL: ts.URL}, ts.Client())
	_, err := client.GenerateSummary(context.Background(), "hello")
	if err == nil || errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("error = %v, want transport error", err)
	}
}
