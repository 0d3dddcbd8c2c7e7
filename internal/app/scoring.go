package app

import "live-quiz-service/internal/domain"

// scoreDelta computes the score change for one answered question. A correct
// choice earns the question's points, a wrong real choice costs its negative
// points, and the timeout sentinel leaves the score untouched.
func scoreDelta(q domain.Question, selected int) int {
	switch {
	case selected == q.AnswerIndex:
		return q.Points
	case selected != domain.TimeoutSentinel:
		return -q.NegativePoints
	default:
		return 0
	}
}

// acceptsSubmission is the exactly-once gate: a submission is scored only
// when the session is live, the participant is waiting on a question, and the
// submitted ID matches the question at the cursor. Anything else — stale
// resends, duplicates during a cooldown, forged IDs, answers after the round
// ended — is ignored without touching state.
func acceptsSubmission(running bool, p *participant, questionID int64) bool {
	if !running || p.phase != phaseAwaitingAnswer {
		return false
	}
	current, ok := p.currentQuestionID()
	return ok && current == questionID
}
