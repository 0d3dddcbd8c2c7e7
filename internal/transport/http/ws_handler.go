package http

import (
	"encoding/json"
	"log"
	"net/http"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WSHandler upgrades participant connections and feeds their events into the
// session service. Each connection gets a generated ID, a hub-backed send
// channel drained by a writer goroutine, and a single read loop — so events
// from one participant reach the service in the order they were sent.
type WSHandler struct {
	service  *app.SessionService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
	// Year arrives as a bare number or a quoted string depending on the
	// client build; json.Number decodes both.
	Year json.Number `json:"year"`
}

type answerPayload struct {
	QuestionID int64 `json:"question_id"`
	Selected   int   `json:"selected"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	send := h.hub.register(connID)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	h.service.Connect(connID)
	defer func() {
		h.service.Disconnect(connID)
		h.hub.unregister(connID)
		<-writerDone
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.dispatch(r, connID, inbound)
	}
}

func (h *WSHandler) dispatch(r *http.Request, connID string, inbound inboundMessage) {
	ctx := r.Context()
	switch inbound.Type {
	case "join":
		var payload joinPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Name == "" {
			h.hub.ToOne(connID, "error", errorPayload{Message: "invalid join payload"})
			return
		}
		year := 0
		if payload.Year != "" {
			n, err := payload.Year.Int64()
			if err != nil {
				h.hub.ToOne(connID, "error", errorPayload{Message: "invalid join payload"})
				return
			}
			year = int(n)
		}
		if err := h.service.Join(ctx, connID, domain.Identity{
			Name:   payload.Name,
			Branch: payload.Branch,
			Year:   year,
		}); err != nil {
			log.Printf("join %q: %v", payload.Name, err)
		}
	case "submitAnswer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.hub.ToOne(connID, "error", errorPayload{Message: "invalid answer payload"})
			return
		}
		if err := h.service.SubmitAnswer(ctx, connID, payload.QuestionID, payload.Selected); err != nil {
			log.Printf("submit answer: %v", err)
		}
	case "requestQuizState":
		if err := h.service.RequestState(ctx, connID); err != nil {
			log.Printf("request state: %v", err)
		}
	default:
		h.hub.ToOne(connID, "error", errorPayload{Message: "unsupported message type"})
	}
}
