package services

import (
	"sort"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

// FreestyleService owns a freestyle screen's subtree: display settings, the
// chat event log, and the question log with per-user likes.
type FreestyleService struct {
	store store.Store
}

func NewFreestyleService(s store.Store) *FreestyleService {
	return &FreestyleService{store: s}
}

func (s *FreestyleService) settingsPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "main", "settings", "public-read")
}

func (s *FreestyleService) chatEventsPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "main", "chat", "events")
}

func (s *FreestyleService) questionEventsPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "main", "questions", "events")
}

func (s *FreestyleService) personalPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "main", "questions", "personal")
}

// SetDisplayMode routes what the audience sees. Purely a flag for the
// rendering layer; no validation beyond the enum.
func (s *FreestyleService) SetDisplayMode(screenID string, mode string) error {
	if !models.KnownDisplayMode(mode) {
		return validationf("unknown display mode %q", mode)
	}
	return s.store.Set(store.Join(s.settingsPath(screenID), "audienceDisplayMode"), mode)
}

func (s *FreestyleService) DisplayMode(screenID string) string {
	mode := store.AsString(s.store.Get(store.Join(s.settingsPath(screenID), "audienceDisplayMode")))
	if mode == "" {
		mode = models.DisplayArbitrary
	}
	return mode
}

// SetArbitraryContent stores the raw html/css shown on the audience or
// presentation surface while the display mode is "arbitrary".
func (s *FreestyleService) SetArbitraryContent(screenID string, target string, content models.ArbitraryContent) error {
	var key string
	switch target {
	case "audience":
		key = "audienceArbitrary"
	case "presentation":
		key = "presentationArbitrary"
	default:
		return validationf("unknown arbitrary content target %q", target)
	}
	return s.store.Set(store.Join(s.settingsPath(screenID), key), map[string]any{
		"html": content.HTML,
		"css":  content.CSS,
	})
}

func (s *FreestyleService) SetShowChat(screenID string, show bool) error {
	return s.store.Set(store.Join(s.settingsPath(screenID), "presentationSettings", "showChat"), show)
}

func (s *FreestyleService) SetPresentationClassName(screenID string, className string) error {
	return s.store.Set(store.Join(s.settingsPath(screenID), "presentationSettings", "className"), className)
}

func (s *FreestyleService) PresentationSettings(screenID string) models.PresentationSettings {
	v := s.store.Get(store.Join(s.settingsPath(screenID), "presentationSettings"))
	return models.PresentationSettings{
		ShowChat:  store.AsBool(store.Child(v, "showChat")),
		ClassName: store.AsString(store.Child(v, "className")),
	}
}

// PostChatMessage appends to the chat log. The text is truncated to 280
// characters before the write.
func (s *FreestyleService) PostChatMessage(screenID string, uid string, text string) (string, error) {
	if text == "" {
		return "", validationf("chat message must not be empty")
	}
	return s.store.Push(s.chatEventsPath(screenID), map[string]any{
		"owner":     uid,
		"timestamp": store.ServerTimestamp,
		"payload": map[string]any{
			"text": truncate(text, models.ChatMessageLimit),
		},
	})
}

// ChatMessages returns the 30 most recent messages by timestamp, oldest
// first.
func (s *FreestyleService) ChatMessages(screenID string) []models.ChatMessage {
	entries := s.store.Query(s.chatEventsPath(screenID), "timestamp", models.ChatWindowSize)
	var messages []models.ChatMessage
	for _, entry := range entries {
		messages = append(messages, models.ChatMessage{
			Key:       entry.Key,
			Owner:     store.AsString(store.Child(entry.Val, "owner")),
			Timestamp: store.AsInt(store.Child(entry.Val, "timestamp")),
			Text:      truncate(store.AsString(store.Child(entry.Val, "payload", "text")), models.ChatMessageLimit),
		})
	}
	return messages
}

// SubmitQuestion writes the question body under the submitter's personal
// subtree, appends a referencing event, and records the submitter's own like
// on that event. Every submission carries the auto-like, so a fresh
// question's like count is always 1.
func (s *FreestyleService) SubmitQuestion(screenID string, uid string, text string) (string, error) {
	if text == "" {
		return "", validationf("question must not be empty")
	}
	text = truncate(text, models.QuestionTextLimit)
	questionKey, err := s.store.Push(store.Join(s.personalPath(screenID), uid, "questions"), map[string]any{
		"text":  text,
		"owner": uid,
	})
	if err != nil {
		return "", err
	}
	eventKey, err := s.store.Push(s.questionEventsPath(screenID), map[string]any{
		"owner":     uid,
		"timestamp": store.ServerTimestamp,
		"payload": map[string]any{
			"questionKey": questionKey,
		},
	})
	if err != nil {
		return "", err
	}
	err = s.store.Set(store.Join(s.personalPath(screenID), uid, "likes", eventKey), true)
	if err != nil {
		return "", err
	}
	return eventKey, nil
}

// ToggleLike records or removes the viewer's like on a question event.
func (s *FreestyleService) ToggleLike(screenID string, uid string, eventKey string, liked bool) error {
	path := store.Join(s.personalPath(screenID), uid, "likes", eventKey)
	if liked {
		return s.store.Set(path, true)
	}
	return s.store.Remove(path)
}

// QuestionList joins the question event log with the personal question
// bodies and per-user likes. Events whose referenced body is missing are
// skipped, tolerating partial writes. sort "top" orders by like count
// descending with ties in arrival order; the default order is
// reverse-chronological.
func (s *FreestyleService) QuestionList(screenID string, viewerUID string, sortMode string) []models.AudienceQuestion {
	events := s.store.Query(s.questionEventsPath(screenID), "timestamp", 0)
	personal := s.store.Get(s.personalPath(screenID))

	likesByEventKey := map[string]int{}
	likedByViewer := map[string]bool{}
	for _, owner := range store.Entries(personal) {
		for _, like := range store.Entries(store.Child(owner.Val, "likes")) {
			likesByEventKey[like.Key]++
			if owner.Key == viewerUID {
				likedByViewer[like.Key] = true
			}
		}
	}

	var questions []models.AudienceQuestion
	for _, event := range events {
		questionKey := store.AsString(store.Child(event.Val, "payload", "questionKey"))
		owner := store.AsString(store.Child(event.Val, "owner"))
		body := store.Child(personal, owner, "questions", questionKey)
		if body == nil {
			continue
		}
		questions = append(questions, models.AudienceQuestion{
			EventKey:    event.Key,
			QuestionKey: questionKey,
			Owner:       owner,
			Text:        store.AsString(store.Child(body, "text")),
			Likes:       likesByEventKey[event.Key],
			Liked:       likedByViewer[event.Key],
		})
	}

	if sortMode == "top" {
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].Likes > questions[j].Likes
		})
	} else {
		for i, j := 0, len(questions)-1; i < j; i, j = i+1, j-1 {
			questions[i], questions[j] = questions[j], questions[i]
		}
	}
	return questions
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return text
}
