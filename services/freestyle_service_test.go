package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

func newFreestyleScreen(t *testing.T) (*FreestyleService, string) {
	t.Helper()
	tree := store.NewMemoryStore()
	screenID, err := NewScreenService(tree).CreateScreen(models.SceneFreestyle)
	assert.Equal(t, err, nil)
	return NewFreestyleService(tree), screenID
}

func TestDisplayMode(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	assert.Equal(t, s.DisplayMode(screen), models.DisplayArbitrary)

	assert.Equal(t, s.SetDisplayMode(screen, models.DisplayChat), nil)
	assert.Equal(t, s.DisplayMode(screen), models.DisplayChat)

	err := s.SetDisplayMode(screen, "carousel")
	assert.Equal(t, IsValidation(err), true)
}

func TestArbitraryContent(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	content := models.ArbitraryContent{HTML: "<h1>Hi</h1>", CSS: "h1 { color: red }"}
	assert.Equal(t, s.SetArbitraryContent(screen, "audience", content), nil)
	assert.Equal(t, s.SetArbitraryContent(screen, "presentation", content), nil)
	assert.Equal(t, IsValidation(s.SetArbitraryContent(screen, "backstage", content)), true)
}

func TestPresentationSettings(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	assert.Equal(t, s.SetShowChat(screen, true), nil)
	assert.Equal(t, s.SetPresentationClassName(screen, "party"), nil)

	settings := s.PresentationSettings(screen)
	assert.Equal(t, settings.ShowChat, true)
	assert.Equal(t, settings.ClassName, "party")
}

func TestPostChatMessageTruncates(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	long := strings.Repeat("x", 300)
	_, err := s.PostChatMessage(screen, "alice", long)
	assert.Equal(t, err, nil)

	messages := s.ChatMessages(screen)
	assert.Equal(t, len(messages), 1)
	assert.Equal(t, len(messages[0].Text), 280)
	assert.Equal(t, messages[0].Owner, "alice")
	assert.NotEqual(t, messages[0].Timestamp, int64(0))
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	s, screen := newFreestyleScreen(t)
	_, err := s.PostChatMessage(screen, "alice", "")
	assert.Equal(t, IsValidation(err), true)
}

func TestChatWindowing(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	for i := 0; i < 40; i++ {
		_, err := s.PostChatMessage(screen, "alice", fmt.Sprintf("message %d", i))
		assert.Equal(t, err, nil)
	}

	messages := s.ChatMessages(screen)
	assert.Equal(t, len(messages), 30)
	// The 30 most recent, oldest first.
	assert.Equal(t, messages[0].Text, "message 10")
	assert.Equal(t, messages[29].Text, "message 39")
}

func TestSubmitQuestionSelfLikes(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	eventKey, err := s.SubmitQuestion(screen, "alice", "Why Go?")
	assert.Equal(t, err, nil)
	assert.NotEqual(t, eventKey, "")

	// The submitter's own like is part of the submit flow: a fresh
	// question always starts at one like.
	questions := s.QuestionList(screen, "alice", "")
	assert.Equal(t, len(questions), 1)
	assert.Equal(t, questions[0].EventKey, eventKey)
	assert.Equal(t, questions[0].Owner, "alice")
	assert.Equal(t, questions[0].Text, "Why Go?")
	assert.Equal(t, questions[0].Likes, 1)
	assert.Equal(t, questions[0].Liked, true)

	// Another viewer sees the same count but is not the liker.
	questions = s.QuestionList(screen, "bob", "")
	assert.Equal(t, questions[0].Likes, 1)
	assert.Equal(t, questions[0].Liked, false)
}

func TestSubmitQuestionTruncates(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	long := strings.Repeat("y", 600)
	_, err := s.SubmitQuestion(screen, "alice", long)
	assert.Equal(t, err, nil)

	questions := s.QuestionList(screen, "alice", "")
	assert.Equal(t, len(questions[0].Text), 500)
}

func TestToggleLike(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	eventKey, _ := s.SubmitQuestion(screen, "alice", "Why Go?")

	assert.Equal(t, s.ToggleLike(screen, "bob", eventKey, true), nil)
	questions := s.QuestionList(screen, "bob", "")
	assert.Equal(t, questions[0].Likes, 2)
	assert.Equal(t, questions[0].Liked, true)

	assert.Equal(t, s.ToggleLike(screen, "bob", eventKey, false), nil)
	questions = s.QuestionList(screen, "bob", "")
	assert.Equal(t, questions[0].Likes, 1)
	assert.Equal(t, questions[0].Liked, false)
}

func TestQuestionListDefaultOrderIsLatestFirst(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	s.SubmitQuestion(screen, "alice", "first")
	s.SubmitQuestion(screen, "bob", "second")
	s.SubmitQuestion(screen, "carol", "third")

	questions := s.QuestionList(screen, "alice", "")
	assert.Equal(t, questions[0].Text, "third")
	assert.Equal(t, questions[1].Text, "second")
	assert.Equal(t, questions[2].Text, "first")
}

func TestQuestionListTopSort(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	first, _ := s.SubmitQuestion(screen, "alice", "first")
	second, _ := s.SubmitQuestion(screen, "bob", "second")
	s.SubmitQuestion(screen, "carol", "third")

	// second: 3 likes, first: 2 likes, third: 1 like (self only).
	s.ToggleLike(screen, "carol", second, true)
	s.ToggleLike(screen, "alice", second, true)
	s.ToggleLike(screen, "bob", first, true)

	questions := s.QuestionList(screen, "alice", "top")
	assert.Equal(t, questions[0].Text, "second")
	assert.Equal(t, questions[1].Text, "first")
	assert.Equal(t, questions[2].Text, "third")
}

func TestQuestionListTopSortTiesKeepArrivalOrder(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	s.SubmitQuestion(screen, "alice", "first")
	s.SubmitQuestion(screen, "bob", "second")
	s.SubmitQuestion(screen, "carol", "third")

	// All tied at one like each: arrival order is preserved.
	questions := s.QuestionList(screen, "alice", "top")
	assert.Equal(t, questions[0].Text, "first")
	assert.Equal(t, questions[1].Text, "second")
	assert.Equal(t, questions[2].Text, "third")
}

func TestQuestionListSkipsMissingBodies(t *testing.T) {
	s, screen := newFreestyleScreen(t)

	s.SubmitQuestion(screen, "alice", "intact")

	// An event referencing a body that never landed: tolerated, skipped.
	_, err := s.store.Push(s.questionEventsPath(screen), map[string]any{
		"owner":     "ghost",
		"timestamp": store.ServerTimestamp,
		"payload":   map[string]any{"questionKey": "missing"},
	})
	assert.Equal(t, err, nil)

	questions := s.QuestionList(screen, "alice", "")
	assert.Equal(t, len(questions), 1)
	assert.Equal(t, questions[0].Text, "intact")
}
