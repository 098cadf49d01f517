package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

// QuizService owns a quiz screen's subtree. The answer key lives under
// questions/secret and never leaves the admin surface; the audience only sees
// the currentQuestion pointer with its answer ids.
type QuizService struct {
	store store.Store
}

func NewQuizService(s store.Store) *QuizService {
	return &QuizService{store: s}
}

func (s *QuizService) questionsPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "questions", "secret")
}

func (s *QuizService) statePath(screenID string) string {
	return store.Join(screenDataPath(screenID), "main", "state", "public-read")
}

func (s *QuizService) answersPath(screenID string, questionID string) string {
	return store.Join(screenDataPath(screenID), "answers", questionID, "private")
}

type quizDocument struct {
	Questions []questionDocument `toml:"questions"`
}

type questionDocument struct {
	Text      string           `toml:"text"`
	TimeLimit int              `toml:"timeLimit"`
	Answers   []answerDocument `toml:"answers"`
}

type answerDocument struct {
	Text    string `toml:"text"`
	Correct bool   `toml:"correct"`
}

var markdown = goldmark.New()

// renderInline renders a one-line markdown fragment without the surrounding
// paragraph wrapper.
func renderInline(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return src
	}
	out := strings.TrimSpace(buf.String())
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return out
}

// ImportQuestions parses a TOML question document and overwrites the whole
// question set in a single write. Question ids are sequential
// (question001, ...) and answer ids restart per question (answer1, ...).
// A question without any correct answer rejects the entire import, naming the
// question; nothing is written on failure.
func (s *QuizService) ImportQuestions(screenID string, tomlText string) (int, error) {
	var doc quizDocument
	if err := toml.Unmarshal([]byte(tomlText), &doc); err != nil {
		return 0, validationf("cannot parse questions: %v", err)
	}
	if len(doc.Questions) == 0 {
		return 0, validationf("no questions found")
	}
	output := map[string]any{}
	for i, q := range doc.Questions {
		key := fmt.Sprintf("question%03d", i+1)
		answers := map[string]any{}
		correct := 0
		for j, a := range q.Answers {
			answers[fmt.Sprintf("answer%d", j+1)] = map[string]any{
				"text":    renderInline(a.Text),
				"correct": a.Correct,
			}
			if a.Correct {
				correct++
			}
		}
		if correct == 0 {
			return 0, validationf("cannot process question %q: no correct answer", key)
		}
		question := map[string]any{
			"text":    renderInline(q.Text),
			"answers": answers,
		}
		if q.TimeLimit > 0 {
			question["timeLimit"] = q.TimeLimit
		}
		output[key] = question
	}
	if err := s.store.Set(s.questionsPath(screenID), output); err != nil {
		return 0, err
	}
	return len(doc.Questions), nil
}

// Questions returns the imported question set in id order. Admin only; the
// returned questions include the correct flags.
func (s *QuizService) Questions(screenID string) []models.QuizQuestion {
	var questions []models.QuizQuestion
	for _, entry := range store.Entries(s.store.Get(s.questionsPath(screenID))) {
		questions = append(questions, s.decodeQuestion(entry.Key, entry.Val))
	}
	return questions
}

func (s *QuizService) decodeQuestion(id string, v any) models.QuizQuestion {
	q := models.QuizQuestion{
		ID:        id,
		Text:      store.AsString(store.Child(v, "text")),
		TimeLimit: int(store.AsInt(store.Child(v, "timeLimit"))),
		Answers:   map[string]models.QuizAnswer{},
	}
	for _, a := range store.Entries(store.Child(v, "answers")) {
		q.Answers[a.Key] = models.QuizAnswer{
			Text:    store.AsString(store.Child(a.Val, "text")),
			Correct: store.AsBool(store.Child(a.Val, "correct")),
		}
	}
	return q
}

// ActivateQuestion makes a question live. Three grouped writes: the released
// audit record, the currentQuestion pointer, and showLeaderboard=false. Not
// transactional; a partial failure is visible to the admin and retried by
// hand.
func (s *QuizService) ActivateQuestion(screenID string, questionID string) error {
	v := s.store.Get(store.Join(s.questionsPath(screenID), questionID))
	if v == nil {
		return validationf("question %q does not exist", questionID)
	}
	answerChoices := []any{}
	for _, a := range store.Entries(store.Child(v, "answers")) {
		answerChoices = append(answerChoices, a.Key)
	}
	timeLimit := int(store.AsInt(store.Child(v, "timeLimit")))

	err := s.store.Set(store.Join(s.statePath(screenID), "released", questionID), map[string]any{
		"activatedAt": store.ServerTimestamp,
		"expiresIn":   timeLimit,
	})
	if err != nil {
		return err
	}
	current := map[string]any{
		"questionId":     questionID,
		"answerChoices":  answerChoices,
		"startedAt":      store.ServerTimestamp,
		"answerRevealed": false,
	}
	if timeLimit > 0 {
		current["expiresIn"] = timeLimit
	}
	if err := s.store.Set(store.Join(s.statePath(screenID), "currentQuestion"), current); err != nil {
		return err
	}
	return s.store.Set(store.Join(s.statePath(screenID), "showLeaderboard"), false)
}

// CurrentQuestion returns the live question pointer, or nil when no question
// is active.
func (s *QuizService) CurrentQuestion(screenID string) *models.CurrentQuestion {
	v := s.store.Get(store.Join(s.statePath(screenID), "currentQuestion"))
	questionID := store.AsString(store.Child(v, "questionId"))
	if questionID == "" {
		return nil
	}
	current := &models.CurrentQuestion{
		QuestionID:     questionID,
		StartedAt:      store.AsInt(store.Child(v, "startedAt")),
		ExpiresIn:      int(store.AsInt(store.Child(v, "expiresIn"))),
		AnswerRevealed: store.AsBool(store.Child(v, "answerRevealed")),
	}
	if choices, ok := store.Child(v, "answerChoices").([]any); ok {
		for _, c := range choices {
			current.AnswerChoices = append(current.AnswerChoices, store.AsString(c))
		}
	}
	return current
}

func (s *QuizService) RevealAnswer(screenID string) error {
	return s.setAnswerRevealed(screenID, true)
}

func (s *QuizService) HideAnswer(screenID string) error {
	return s.setAnswerRevealed(screenID, false)
}

func (s *QuizService) setAnswerRevealed(screenID string, revealed bool) error {
	if s.CurrentQuestion(screenID) == nil {
		return validationf("no active question")
	}
	return s.store.Set(store.Join(s.statePath(screenID), "currentQuestion", "answerRevealed"), revealed)
}

// SubmitAnswer records a user's answer to the active question. First write
// wins: a user cannot change an answer once submitted.
func (s *QuizService) SubmitAnswer(screenID string, uid string, questionID string, answerID string) error {
	current := s.CurrentQuestion(screenID)
	if current == nil || current.QuestionID != questionID {
		return validationf("question %q is not active", questionID)
	}
	if current.AnswerRevealed {
		return validationf("answer has been revealed")
	}
	answerPath := store.Join(s.answersPath(screenID, questionID), uid)
	if s.store.Get(answerPath) != nil {
		return validationf("answer already submitted")
	}
	return s.store.Set(answerPath, map[string]any{
		"answerId":  answerID,
		"timestamp": store.ServerTimestamp,
	})
}

// UserAnswer returns one user's submitted answer to a question, or nil when
// they have not answered.
func (s *QuizService) UserAnswer(screenID string, uid string, questionID string) *models.SubmittedAnswer {
	v := s.store.Get(store.Join(s.answersPath(screenID, questionID), uid))
	if v == nil {
		return nil
	}
	return &models.SubmittedAnswer{
		AnswerID:  store.AsString(store.Child(v, "answerId")),
		Timestamp: store.AsInt(store.Child(v, "timestamp")),
	}
}

// GradeQuestion walks all submitted answers in submission order and awards
// decaying rewards to correct ones, then turns the leaderboard on. Correct
// answers earn 100, 99, ... down to a floor of 50; incorrect answers get no
// score cell at all.
//
// Grading is deliberately not idempotent: every call re-walks the full answer
// list with a fresh reward counter, so re-grading after late arrivals
// re-scores everyone on a shifted curve. Pinned by a regression test.
func (s *QuizService) GradeQuestion(screenID string, questionID string) error {
	question := s.store.Get(store.Join(s.questionsPath(screenID), questionID))
	if question == nil {
		return validationf("question %q does not exist", questionID)
	}
	correct := map[string]bool{}
	for _, a := range store.Entries(store.Child(question, "answers")) {
		if store.AsBool(store.Child(a.Val, "correct")) {
			correct[a.Key] = true
		}
	}
	answers := s.store.Query(s.answersPath(screenID, questionID), "timestamp", 0)
	reward := models.RewardInitial
	for _, entry := range answers {
		uid := entry.Key
		answerID := store.AsString(store.Child(entry.Val, "answerId"))
		if !correct[answerID] {
			continue
		}
		scorePath := store.Join(s.statePath(screenID), "score", uid, questionID)
		if err := s.store.Set(scorePath, reward); err != nil {
			return err
		}
		if reward > models.RewardFloor {
			reward--
		}
	}
	return s.SetShowLeaderboard(screenID, true)
}

func (s *QuizService) SetShowLeaderboard(screenID string, show bool) error {
	return s.store.Set(store.Join(s.statePath(screenID), "showLeaderboard"), show)
}

func (s *QuizService) ShowLeaderboard(screenID string) bool {
	return store.AsBool(s.store.Get(store.Join(s.statePath(screenID), "showLeaderboard")))
}

// ComputeLeaderboard sums each user's per-question scores and sorts
// descending by total, ties broken by uid so the order is stable between
// recomputations. Users without any score cells do not appear.
func (s *QuizService) ComputeLeaderboard(screenID string) []models.LeaderboardEntry {
	var entries []models.LeaderboardEntry
	for _, user := range store.Entries(s.store.Get(store.Join(s.statePath(screenID), "score"))) {
		var points int64
		for _, q := range store.Entries(user.Val) {
			points += store.AsInt(q.Val)
		}
		entries = append(entries, models.LeaderboardEntry{UID: user.Key, Points: points})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries
}
