package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/infra/memory"
)

func TestAdminRejectsBadCredential(t *testing.T) {
	questions := memory.NewQuestionStore()
	server := newAdminServer(t, questions)
	defer server.Close()

	for _, path := range []string{"/admin/check", "/admin/stats", "/admin/list", "/admin/add-question", "/admin/delete", "/admin/start", "/admin/end"} {
		resp := post(t, server, path, map[string]any{"pass": "wrong"})
		if resp["ok"] != false {
			t.Fatalf("%s: expected rejection, got %v", path, resp)
		}
	}
	// Rejections must not have mutated anything.
	if n, _ := questions.Count(context.Background()); n != 0 {
		t.Fatalf("expected no questions after rejected calls, got %d", n)
	}
}

func TestAdminQuestionLifecycle(t *testing.T) {
	questions := memory.NewQuestionStore()
	server := newAdminServer(t, questions)
	defer server.Close()

	resp := post(t, server, "/admin/add-question", map[string]any{
		"pass":            "sekrit",
		"prompt":          "What is 2 + 2?",
		"choices":         []string{"3", "4", "5"},
		"answer_index":    1,
		"time_limit":      10,
		"points":          10,
		"negative_points": 5,
	})
	if resp["ok"] != true {
		t.Fatalf("add: %v", resp)
	}
	id := resp["id"].(float64)

	resp = post(t, server, "/admin/list", map[string]any{"pass": "sekrit"})
	if resp["ok"] != true {
		t.Fatalf("list: %v", resp)
	}
	listed := resp["questions"].([]any)
	if len(listed) != 1 {
		t.Fatalf("expected one question, got %v", listed)
	}

	resp = post(t, server, "/admin/stats", map[string]any{"pass": "sekrit"})
	if resp["totalQuestions"] != float64(1) || resp["quizStatus"] != "Idle" {
		t.Fatalf("stats: %v", resp)
	}

	resp = post(t, server, "/admin/delete", map[string]any{"pass": "sekrit", "id": id})
	if resp["ok"] != true {
		t.Fatalf("delete: %v", resp)
	}
	resp = post(t, server, "/admin/stats", map[string]any{"pass": "sekrit"})
	if resp["totalQuestions"] != float64(0) {
		t.Fatalf("stats after delete: %v", resp)
	}
}

func TestAdminAddQuestionValidation(t *testing.T) {
	server := newAdminServer(t, memory.NewQuestionStore())
	defer server.Close()

	bad := []map[string]any{
		{"pass": "sekrit", "prompt": "", "choices": []string{"a"}, "answer_index": 0},
		{"pass": "sekrit", "prompt": "p", "choices": []string{}, "answer_index": 0},
		{"pass": "sekrit", "prompt": "p", "choices": []string{"a", "b"}, "answer_index": 2},
	}
	for i, body := range bad {
		if resp := post(t, server, "/admin/add-question", body); resp["ok"] != false {
			t.Fatalf("case %d: expected validation failure, got %v", i, resp)
		}
	}
}

func TestAdminSessionTransitions(t *testing.T) {
	questions := memory.NewQuestionStore()
	server := newAdminServer(t, questions)
	defer server.Close()

	post(t, server, "/admin/add-question", map[string]any{
		"pass": "sekrit", "prompt": "p", "choices": []string{"a", "b"}, "answer_index": 0,
		"time_limit": 10, "points": 10,
	})

	if resp := post(t, server, "/admin/start", map[string]any{"pass": "sekrit"}); resp["ok"] != true {
		t.Fatalf("start: %v", resp)
	}
	if resp := post(t, server, "/admin/stats", map[string]any{"pass": "sekrit"}); resp["quizStatus"] != "Running" {
		t.Fatalf("stats while running: %v", resp)
	}
	if resp := post(t, server, "/admin/end", map[string]any{"pass": "sekrit"}); resp["ok"] != true {
		t.Fatalf("end: %v", resp)
	}
	if resp := post(t, server, "/admin/stats", map[string]any{"pass": "sekrit"}); resp["quizStatus"] != "Idle" {
		t.Fatalf("stats after end: %v", resp)
	}
}

func newAdminServer(t *testing.T, questions *memory.QuestionStore) *httptest.Server {
	t.Helper()
	hub := NewHub()
	service := app.NewSessionService(questions, memory.NewResultStore(), hub, time.Second)
	admin := NewAdminHandler(service, questions, hub, "sekrit")

	mux := http.NewServeMux()
	admin.Register(mux)
	return httptest.NewServer(mux)
}

func post(t *testing.T, server *httptest.Server, path string, body map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return decoded
}
