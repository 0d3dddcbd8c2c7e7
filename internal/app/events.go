package app

import "live-quiz-service/internal/domain"

// Outbound event names, matching the wire protocol the web clients speak.
const (
	EventPlayerCount  = "playerCountUpdate"
	EventQuizState    = "quizState"
	EventQuestion     = "question"
	EventAnswerResult = "answerResult"
	EventYourScore    = "yourScore"
	EventQuizFinished = "quizFinished"
	EventLeaderboard  = "leaderboardUpdate"
)

// LeaderboardSize caps how many rows state and leaderboard events carry.
const LeaderboardSize = 20

type PlayerCountPayload struct {
	Count int `json:"count"`
}

type QuizStatePayload struct {
	Running      bool            `json:"running"`
	Leaderboard  []domain.Result `json:"leaderboard"`
	TotalPlayers int             `json:"totalPlayers"`
}

// QuestionPayload is the client-facing projection of a question. The correct
// answer stays server-side until the matching answerResult.
type QuestionPayload struct {
	ID               int64    `json:"id"`
	Prompt           string   `json:"prompt"`
	Choices          []string `json:"choices"`
	TimeLimitSeconds int      `json:"time_limit"`
	Points           int      `json:"points"`
	NegativePoints   int      `json:"negative_points"`
	// StartAt is the delivery instant in unix milliseconds; clients pair it
	// with time_limit to run a local countdown. Never enforced server-side.
	StartAt int64 `json:"startAt"`
}

type AnswerResultPayload struct {
	CorrectIndex  int `json:"correct_index"`
	SelectedIndex int `json:"selected_index"`
}

type ScorePayload struct {
	Score int `json:"score"`
}

type LeaderboardPayload struct {
	Leaderboard  []domain.Result `json:"leaderboard"`
	TotalPlayers int             `json:"totalPlayers"`
}
