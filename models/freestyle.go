package models

// Audience display modes for the freestyle scene.
const (
	DisplayArbitrary = "arbitrary"
	DisplayChat      = "chat"
	DisplayQuestions = "questions"
	DisplayBoth      = "both"
)

func KnownDisplayMode(mode string) bool {
	switch mode {
	case DisplayArbitrary, DisplayChat, DisplayQuestions, DisplayBoth:
		return true
	}
	return false
}

const (
	ChatMessageLimit  = 280
	QuestionTextLimit = 500
	ChatWindowSize    = 30
)

type ChatMessage struct {
	Key       string `json:"key"`
	Owner     string `json:"owner"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
}

type AudienceQuestion struct {
	EventKey    string `json:"event_key"`
	QuestionKey string `json:"question_key"`
	Owner       string `json:"owner"`
	Text        string `json:"text"`
	Likes       int    `json:"likes"`
	Liked       bool   `json:"liked"`
}

type ArbitraryContent struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

type PresentationSettings struct {
	ShowChat  bool   `json:"show_chat"`
	ClassName string `json:"class_name"`
}
