package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// DefaultCooldown is the pause between a scored answer and delivery of the
// participant's next question.
const DefaultCooldown = time.Second

// scheduleFunc defers fn by d and returns a cancel function reporting whether
// the callback was stopped before it ran. Production uses time.AfterFunc;
// tests substitute a manual trigger.
type scheduleFunc func(d time.Duration, fn func()) func() bool

// SessionService orchestrates one admin-paced quiz session: it owns the
// participant registry and the running flag, sequences questions per
// participant, scores submissions exactly once, and keeps the persisted
// leaderboard in step.
//
// A single mutex serializes every inbound event (joins, answers, admin
// transitions, disconnects, cooldown expirations), so each handler runs to
// completion before the next and no participant field needs its own lock.
type SessionService struct {
	questions QuestionStore
	results   ResultStore
	broadcast Broadcaster
	cooldown  time.Duration
	now       func() time.Time
	schedule  scheduleFunc

	mu           sync.Mutex
	running      bool
	participants map[string]*participant
}

func NewSessionService(questions QuestionStore, results ResultStore, b Broadcaster, cooldown time.Duration) *SessionService {
	return NewSessionServiceWithClock(questions, results, b, cooldown, time.Now, defaultSchedule)
}

// NewSessionServiceWithClock is test-only: it pins timestamps and lets tests
// fire cooldowns by hand instead of sleeping.
func NewSessionServiceWithClock(questions QuestionStore, results ResultStore, b Broadcaster, cooldown time.Duration, now func() time.Time, schedule scheduleFunc) *SessionService {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &SessionService{
		questions:    questions,
		results:      results,
		broadcast:    b,
		cooldown:     cooldown,
		now:          now,
		schedule:     schedule,
		participants: make(map[string]*participant),
	}
}

func defaultSchedule(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Connect announces the current player count to a freshly opened connection
// (and everyone else, matching the broadcast the web clients expect).
func (s *SessionService) Connect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastCountLocked()
}

// Disconnect drops the in-memory participant for a closed connection. Any
// pending cooldown becomes a no-op; the persisted result is untouched.
func (s *SessionService) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.participants[connID]; ok {
		p.invalidateCooldown()
		delete(s.participants, connID)
	}
	s.broadcastCountLocked()
}

// Join registers a participant. When the session is already running the
// joiner gets the full current question order and enters at question one; no
// catch-up to other participants' positions is attempted.
func (s *SessionService) Join(ctx context.Context, connID string, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := newParticipant(connID, identity)
	s.participants[connID] = p
	s.broadcastCountLocked()

	if !s.running {
		return nil
	}
	ids, err := s.questions.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("assign question order: %w", err)
	}
	p.reset(ids)
	return s.deliverLocked(ctx, p)
}

// SubmitAnswer scores a submission against the participant's current
// question. Stale, duplicate, idle-session and pre-join submissions are
// silently ignored — the cursor match is the exactly-once guarantee. An
// accepted answer emits answerResult and yourScore to the submitter, upserts
// the persisted result, broadcasts the leaderboard, and schedules the next
// question after the cooldown.
func (s *SessionService) SubmitAnswer(ctx context.Context, connID string, questionID int64, selected int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[connID]
	if !ok || !acceptsSubmission(s.running, p, questionID) {
		return nil
	}

	q, err := s.questions.Get(ctx, questionID)
	switch {
	case err == nil:
		p.score += scoreDelta(q, selected)
		s.broadcast.ToOne(connID, EventAnswerResult, AnswerResultPayload{
			CorrectIndex:  q.AnswerIndex,
			SelectedIndex: selected,
		})
	case errors.Is(err, domain.ErrQuestionNotFound):
		// Deleted between delivery and answer; no points either way.
	default:
		log.Printf("load question %d: %v", questionID, err)
	}
	s.broadcast.ToOne(connID, EventYourScore, ScorePayload{Score: p.score})

	if err := s.results.Upsert(ctx, domain.Result{
		Name:      p.identity.Name,
		Branch:    p.identity.Branch,
		Year:      p.identity.Year,
		Score:     p.score,
		Timestamp: s.now(),
	}); err != nil {
		// The in-memory score keeps the update; the divergence is surfaced to
		// the operator rather than hidden or replayed.
		log.Printf("persist result for %q: %v", p.identity.Name, err)
	} else {
		s.broadcastLeaderboardLocked(ctx)
	}

	s.startCooldownLocked(p)
	return nil
}

// RequestState sends the caller the current session snapshot: running flag,
// top leaderboard rows and total persisted players.
func (s *SessionService) RequestState(ctx context.Context, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.stateLocked(ctx)
	if err != nil {
		return err
	}
	s.broadcast.ToOne(connID, EventQuizState, state)
	return nil
}

// Start transitions the session to Running: prior results are cleared and
// every connected participant is reset to the full ascending catalog order
// and handed question one. Invoked while already running it re-runs the same
// reset. Store failures abort the transition: the bulk reads happen before
// the flag flips, and a failed opening delivery rolls the flag back so the
// admin sees the error instead of a half-applied start.
func (s *SessionService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.questions.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list question order: %w", err)
	}
	if err := s.results.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}

	s.running = true
	for _, p := range s.participants {
		p.reset(ids)
		if err := s.deliverLocked(ctx, p); err != nil {
			// Back to Idle: submissions against anything already delivered
			// are gated on the running flag, and a retried start re-runs the
			// whole reset.
			s.running = false
			return fmt.Errorf("deliver opening question: %w", err)
		}
	}
	s.broadcast.ToAll(EventQuizState, QuizStatePayload{Running: true, Leaderboard: []domain.Result{}})
	return nil
}

// End transitions the session to Idle and broadcasts the final standings.
// In-flight progress is abandoned: pending cooldowns are invalidated and no
// further questions go out. The leaderboard read happens before the flag
// flips so a store failure surfaces without a half-applied transition.
func (s *SessionService) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateLocked(ctx)
	if err != nil {
		return err
	}
	s.running = false
	for _, p := range s.participants {
		p.invalidateCooldown()
	}
	state.Running = false
	s.broadcast.ToAll(EventQuizState, state)
	return nil
}

// Running reports whether a round is live.
func (s *SessionService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// PlayerCount is the number of joined participants currently connected.
func (s *SessionService) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants)
}

func (s *SessionService) deliverLocked(ctx context.Context, p *participant) error {
	d, finished, err := advance(ctx, p, s.questions, s.now())
	if err != nil {
		return fmt.Errorf("advance participant %q: %w", p.identity.Name, err)
	}
	if finished {
		p.phase = phaseFinished
		s.broadcast.ToOne(p.connID, EventQuizFinished, ScorePayload{Score: p.score})
		return nil
	}
	p.phase = phaseAwaitingAnswer
	s.broadcast.ToOne(p.connID, EventQuestion, QuestionPayload{
		ID:               d.question.ID,
		Prompt:           d.question.Prompt,
		Choices:          d.question.Choices,
		TimeLimitSeconds: d.question.TimeLimitSeconds,
		Points:           d.question.Points,
		NegativePoints:   d.question.NegativePoints,
		StartAt:          d.startAt.UnixMilli(),
	})
	return nil
}

func (s *SessionService) startCooldownLocked(p *participant) {
	p.phase = phaseCooldown
	p.seq++
	seq := p.seq
	connID := p.connID
	p.cancel = s.schedule(s.cooldown, func() {
		s.resumeAfterCooldown(connID, seq)
	})
}

// resumeAfterCooldown is the deferred half of a cooldown. The seq check makes
// callbacks from a superseded round or a disconnected participant no-ops
// even when the timer could not be stopped in time.
func (s *SessionService) resumeAfterCooldown(connID string, seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[connID]
	if !ok || p.seq != seq || p.phase != phaseCooldown || !s.running {
		return
	}
	p.cancel = nil
	// Mid-round delivery failure stalls only this participant; the session
	// stays live for everyone else.
	if err := s.deliverLocked(context.Background(), p); err != nil {
		log.Printf("resume after cooldown: %v", err)
	}
}

func (s *SessionService) stateLocked(ctx context.Context) (QuizStatePayload, error) {
	top, err := s.results.Top(ctx, LeaderboardSize)
	if err != nil {
		return QuizStatePayload{}, fmt.Errorf("read leaderboard: %w", err)
	}
	total, err := s.results.Count(ctx)
	if err != nil {
		return QuizStatePayload{}, fmt.Errorf("count results: %w", err)
	}
	return QuizStatePayload{Running: s.running, Leaderboard: top, TotalPlayers: total}, nil
}

func (s *SessionService) broadcastLeaderboardLocked(ctx context.Context) {
	top, err := s.results.Top(ctx, LeaderboardSize)
	if err != nil {
		log.Printf("read leaderboard: %v", err)
		return
	}
	total, err := s.results.Count(ctx)
	if err != nil {
		log.Printf("count results: %v", err)
		return
	}
	s.broadcast.ToAll(EventLeaderboard, LeaderboardPayload{Leaderboard: top, TotalPlayers: total})
}

func (s *SessionService) broadcastCountLocked() {
	s.broadcast.ToAll(EventPlayerCount, PlayerCountPayload{Count: len(s.participants)})
}
