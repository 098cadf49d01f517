package services

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

func TestCreateScreenAndList(t *testing.T) {
	s := NewScreenService(store.NewMemoryStore())

	voteID, err := s.CreateScreen(models.SceneVote)
	assert.Equal(t, err, nil)
	quizID, err := s.CreateScreen(models.SceneQuiz)
	assert.Equal(t, err, nil)

	screens := s.ListScreens()
	assert.Equal(t, len(screens), 2)
	assert.Equal(t, screens[0].ID, voteID)
	assert.Equal(t, screens[0].Info.Scene, models.SceneVote)
	assert.Equal(t, screens[0].Info.Title, models.SceneVote)
	assert.Equal(t, screens[1].ID, quizID)
}

func TestCreateScreenDoesNotValidateSceneType(t *testing.T) {
	s := NewScreenService(store.NewMemoryStore())

	id, err := s.CreateScreen("karaoke")
	assert.Equal(t, err, nil)

	// The unknown type surfaces at read time instead.
	info, err := s.ScreenInfo(id)
	assert.NotEqual(t, err, nil)
	assert.Equal(t, info.Scene, "karaoke")
}

func TestRenameScreen(t *testing.T) {
	s := NewScreenService(store.NewMemoryStore())

	id, _ := s.CreateScreen(models.SceneVote)
	assert.Equal(t, s.RenameScreen(id, "Favorite language"), nil)

	info, _ := s.ScreenInfo(id)
	assert.Equal(t, info.Title, "Favorite language")

	err := s.RenameScreen(id, "")
	assert.Equal(t, IsValidation(err), true)
}

func TestDeleteScreenRemovesListEntryAndSubtree(t *testing.T) {
	tree := store.NewMemoryStore()
	s := NewScreenService(tree)

	id, _ := s.CreateScreen(models.SceneVote)
	tree.Set(store.Join("screenData", id, "data", "options", "option00"), "A")

	assert.Equal(t, s.DeleteScreen(id), nil)
	assert.Equal(t, len(s.ListScreens()), 0)
	assert.Equal(t, tree.Get(store.Join("screenData", id)), nil)
}

func TestCurrentScreenPointer(t *testing.T) {
	s := NewScreenService(store.NewMemoryStore())

	assert.Equal(t, s.CurrentScreen(), "")

	id, _ := s.CreateScreen(models.SceneQuiz)
	assert.Equal(t, s.SetCurrentScreen(id), nil)
	assert.Equal(t, s.CurrentScreen(), id)

	assert.Equal(t, s.SetCurrentScreen(""), nil)
	assert.Equal(t, s.CurrentScreen(), "")
}
