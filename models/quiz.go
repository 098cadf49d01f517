package models

// Reward decay for quiz grading: the first correct respondent earns
// RewardInitial points and each following correct respondent earns one point
// less, down to RewardFloor.
const (
	RewardInitial = 100
	RewardFloor   = 50
)

type QuizAnswer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type QuizQuestion struct {
	ID        string                `json:"id"`
	Text      string                `json:"text"`
	TimeLimit int                   `json:"time_limit,omitempty"`
	Answers   map[string]QuizAnswer `json:"answers"`
}

// CurrentQuestion is the single pointer selecting which question is live for
// the audience. AnswerChoices carries the answer ids in display order so the
// audience view never needs to read the secret question body.
type CurrentQuestion struct {
	QuestionID     string   `json:"question_id"`
	AnswerChoices  []string `json:"answer_choices"`
	StartedAt      int64    `json:"started_at"`
	ExpiresIn      int      `json:"expires_in,omitempty"`
	AnswerRevealed bool     `json:"answer_revealed"`
}

type SubmittedAnswer struct {
	AnswerID  string `json:"answer_id"`
	Timestamp int64  `json:"timestamp"`
}

type LeaderboardEntry struct {
	UID    string `json:"uid"`
	Points int64  `json:"points"`
}
