package app

import "live-quiz-service/internal/domain"

// phase tracks where a participant is in their question sequence. The
// transitions are NotStarted -> AwaitingAnswer -> Cooldown -> AwaitingAnswer
// ... -> Finished; a session start rewinds any phase back to NotStarted.
type phase int

const (
	phaseNotStarted phase = iota
	phaseAwaitingAnswer
	phaseCooldown
	phaseFinished
)

// participant is the ephemeral per-connection progress record. It is only
// ever touched under the owning SessionService's lock.
type participant struct {
	connID   string
	identity domain.Identity
	score    int

	// order is the question-ID sequence for the current round; cursor is the
	// position within it: -1 before the first question, len(order) when done.
	order  []int64
	cursor int
	phase  phase

	// seq invalidates scheduled cooldown callbacks: it is bumped whenever the
	// participant's progress is reset, so a timer from a previous round (or a
	// canceled cooldown) fires as a no-op.
	seq    uint64
	cancel func() bool
}

func newParticipant(connID string, identity domain.Identity) *participant {
	return &participant{
		connID:   connID,
		identity: identity,
		cursor:   -1,
	}
}

// currentQuestionID returns the ID at the cursor, or false when the cursor is
// outside the deliverable range.
func (p *participant) currentQuestionID() (int64, bool) {
	if p.cursor < 0 || p.cursor >= len(p.order) {
		return 0, false
	}
	return p.order[p.cursor], true
}

// reset rewinds the participant for a fresh round and invalidates any
// pending cooldown.
func (p *participant) reset(order []int64) {
	p.invalidateCooldown()
	p.order = order
	p.cursor = -1
	p.score = 0
	p.phase = phaseNotStarted
}

func (p *participant) invalidateCooldown() {
	p.seq++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}
