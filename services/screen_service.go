package services

import (
	"fmt"
	"sync"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

// ScreenService owns the screen registry: the ordered screen list at
// /screens, per-screen info and data under /screenData/{id}, and the single
// /currentScreen pointer selecting what audience and presentation see.
type ScreenService struct {
	store store.Store
}

func NewScreenService(s store.Store) *ScreenService {
	return &ScreenService{store: s}
}

func screenDataPath(screenID string) string {
	return store.Join("screenData", screenID, "data")
}

// CreateScreen allocates a new screen for the given scene type and returns
// its id. The scene type is not validated here; an unknown type surfaces as
// an error state when the screen is read.
func (s *ScreenService) CreateScreen(sceneType string) (string, error) {
	id, err := s.store.Push("screens", true)
	if err != nil {
		return "", err
	}
	err = s.store.Set(store.Join("screenData", id, "info"), map[string]any{
		"scene": sceneType,
		"title": sceneType,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListScreens returns all screens in insertion order.
func (s *ScreenService) ListScreens() []models.Screen {
	var screens []models.Screen
	for _, entry := range store.Entries(s.store.Get("screens")) {
		info, _ := s.ScreenInfo(entry.Key)
		screens = append(screens, models.Screen{ID: entry.Key, Info: info})
	}
	return screens
}

// ScreenInfo reads a screen's info record. An unknown scene type is reported
// as an error but the info is still returned, so callers can render a
// degraded state instead of failing the read pipeline.
func (s *ScreenService) ScreenInfo(screenID string) (models.ScreenInfo, error) {
	v := s.store.Get(store.Join("screenData", screenID, "info"))
	info := models.ScreenInfo{
		Scene: store.AsString(store.Child(v, "scene")),
		Title: store.AsString(store.Child(v, "title")),
	}
	if !models.KnownScene(info.Scene) {
		return info, fmt.Errorf("screen %s has unknown scene type %q", screenID, info.Scene)
	}
	return info, nil
}

func (s *ScreenService) RenameScreen(screenID string, title string) error {
	if title == "" {
		return validationf("screen title must not be empty")
	}
	return s.store.Set(store.Join("screenData", screenID, "info", "title"), title)
}

// DeleteScreen removes the screen-list entry and the screen's data subtree.
// The two writes are issued concurrently and are not atomic: a crash between
// them can strand an orphaned subtree or a dangling list entry. Accepted for
// an event-duration tool.
func (s *ScreenService) DeleteScreen(screenID string) error {
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = s.store.Remove(store.Join("screens", screenID))
	}()
	go func() {
		defer wg.Done()
		errs[1] = s.store.Remove(store.Join("screenData", screenID))
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// SetCurrentScreen points the audience and presentation at a screen. An empty
// id clears the pointer.
func (s *ScreenService) SetCurrentScreen(screenID string) error {
	if screenID == "" {
		return s.store.Remove("currentScreen")
	}
	return s.store.Set("currentScreen", screenID)
}

// CurrentScreen returns the latest observed value of the pointer, or "" when
// no screen is active.
func (s *ScreenService) CurrentScreen() string {
	return store.AsString(s.store.Get("currentScreen"))
}
