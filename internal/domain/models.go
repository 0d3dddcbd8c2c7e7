package domain

import (
	"sort"
	"time"
)

// Question is one multiple-choice question. AnswerIndex points into Choices.
type Question struct {
	ID               int64    `json:"id"`
	Prompt           string   `json:"prompt"`
	Choices          []string `json:"choices"`
	AnswerIndex      int      `json:"answer_index"`
	TimeLimitSeconds int      `json:"time_limit"`
	Points           int      `json:"points"`
	NegativePoints   int      `json:"negative_points"`
}

// Identity is how a participant introduces themselves at join time.
// Name doubles as the durable leaderboard key; duplicate names collide.
type Identity struct {
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Year   int    `json:"year"`
}

// Result is a persisted leaderboard row, one per identity name.
// Timestamp is the instant of the last scoring write.
type Result struct {
	Name      string    `json:"name"`
	Branch    string    `json:"branch"`
	Year      int       `json:"year"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"-"`
}

// TimeoutSentinel is the selected-index value clients send when the
// countdown expired without a choice. It never incurs a penalty.
const TimeoutSentinel = -1

// RankResults orders results for leaderboard display: score descending,
// earlier timestamp first on ties, name as the final tie-break.
func RankResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].Timestamp.Before(results[j].Timestamp)
		}
		return results[i].Name < results[j].Name
	})
}
