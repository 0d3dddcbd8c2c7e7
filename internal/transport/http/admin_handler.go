package http

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// AdminHandler exposes the admin control surface: credential check, stats,
// question management and the start/end session transitions. Every endpoint
// takes a JSON POST body carrying the shared-secret pass field and answers
// {"ok":false} with no state change when it does not match.
type AdminHandler struct {
	service   *app.SessionService
	questions app.QuestionStore
	hub       *Hub
	secret    string
}

func NewAdminHandler(service *app.SessionService, questions app.QuestionStore, hub *Hub, secret string) *AdminHandler {
	return &AdminHandler{service: service, questions: questions, hub: hub, secret: secret}
}

// Register mounts the admin routes on mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/check", h.handleCheck)
	mux.HandleFunc("/admin/stats", h.handleStats)
	mux.HandleFunc("/admin/list", h.handleList)
	mux.HandleFunc("/admin/add-question", h.handleAddQuestion)
	mux.HandleFunc("/admin/delete", h.handleDelete)
	mux.HandleFunc("/admin/start", h.handleStart)
	mux.HandleFunc("/admin/end", h.handleEnd)
}

type adminRequest struct {
	Pass string `json:"pass"`

	// add-question fields
	Prompt         string   `json:"prompt"`
	Choices        []string `json:"choices"`
	AnswerIndex    int      `json:"answer_index"`
	TimeLimit      int      `json:"time_limit"`
	Points         int      `json:"points"`
	NegativePoints int      `json:"negative_points"`

	// delete field
	ID int64 `json:"id"`
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) (adminRequest, bool) {
	var req adminRequest
	if r.Method != http.MethodPost {
		writeJSON(w, map[string]any{"ok": false})
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, map[string]any{"ok": false})
		return req, false
	}
	if subtle.ConstantTimeCompare([]byte(req.Pass), []byte(h.secret)) != 1 {
		writeJSON(w, map[string]any{"ok": false})
		return req, false
	}
	return req, true
}

func (h *AdminHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *AdminHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	total, err := h.questions.Count(r.Context())
	if err != nil {
		log.Printf("count questions: %v", err)
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	status := "Idle"
	if h.service.Running() {
		status = "Running"
	}
	writeJSON(w, map[string]any{
		"ok":             true,
		"totalQuestions": total,
		"playersOnline":  h.service.PlayerCount(),
		"connections":    h.hub.ConnectionCount(),
		"quizStatus":     status,
	})
}

func (h *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	questions, err := h.questions.List(r.Context())
	if err != nil {
		log.Printf("list questions: %v", err)
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	// newest first for the dashboard
	for i, j := 0, len(questions)-1; i < j; i, j = i+1, j-1 {
		questions[i], questions[j] = questions[j], questions[i]
	}
	writeJSON(w, map[string]any{"ok": true, "questions": questions})
}

func (h *AdminHandler) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	req, ok := h.authorize(w, r)
	if !ok {
		return
	}
	if req.Prompt == "" || len(req.Choices) == 0 || req.AnswerIndex < 0 || req.AnswerIndex >= len(req.Choices) {
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	id, err := h.questions.Insert(r.Context(), domain.Question{
		Prompt:           req.Prompt,
		Choices:          req.Choices,
		AnswerIndex:      req.AnswerIndex,
		TimeLimitSeconds: req.TimeLimit,
		Points:           req.Points,
		NegativePoints:   req.NegativePoints,
	})
	if err != nil {
		log.Printf("add question: %v", err)
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

func (h *AdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	req, ok := h.authorize(w, r)
	if !ok {
		return
	}
	if err := h.questions.Delete(r.Context(), req.ID); err != nil {
		log.Printf("delete question %d: %v", req.ID, err)
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *AdminHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	if err := h.service.Start(r.Context()); err != nil {
		log.Printf("start session: %v", err)
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *AdminHandler) handleEnd(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}
	if err := h.service.End(r.Context()); err != nil {
		log.Printf("end session: %v", err)
		writeJSON(w, map[string]any{"ok": false})
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write admin response: %v", err)
	}
}
