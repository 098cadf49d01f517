package models

// Scene type discriminators. A screen's scene type is fixed at creation;
// changing it afterwards would orphan the screen's data subtree.
const (
	SceneVote      = "vote"
	SceneQuiz      = "quiz"
	SceneFreestyle = "freestyle"
)

// KnownScene reports whether name maps to a registered scene type. Screens
// are created without validation; an unknown scene type surfaces as an error
// state at read time instead.
func KnownScene(name string) bool {
	switch name {
	case SceneVote, SceneQuiz, SceneFreestyle:
		return true
	}
	return false
}

type ScreenInfo struct {
	Scene string `json:"scene"`
	Title string `json:"title"`
}

type Screen struct {
	ID   string     `json:"id"`
	Info ScreenInfo `json:"info"`
}
