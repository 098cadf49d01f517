package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

// VoteService owns a vote screen's subtree: admin-set options and settings,
// and per-user selections under votes/private/{uid}.
type VoteService struct {
	store store.Store
}

func NewVoteService(s store.Store) *VoteService {
	return &VoteService{store: s}
}

func (s *VoteService) optionsPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "options")
}

func (s *VoteService) settingsPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "settings")
}

func (s *VoteService) votesPath(screenID string) string {
	return store.Join(screenDataPath(screenID), "votes", "private")
}

// SetOptions replaces the whole options map from a slash-separated string.
// Empty items are dropped; keys are zero-padded in input order so the key
// order is the display order. Votes referencing keys absent from the new map
// become orphaned and simply never match a rendered option.
func (s *VoteService) SetOptions(screenID string, text string) error {
	options := map[string]any{}
	n := 0
	for _, item := range strings.Split(text, "/") {
		if item == "" {
			continue
		}
		options[fmt.Sprintf("option%02d", n)] = item
		n++
	}
	return s.store.Set(s.optionsPath(screenID), options)
}

func (s *VoteService) Options(screenID string) []models.VoteOption {
	var options []models.VoteOption
	for _, entry := range store.Entries(s.store.Get(s.optionsPath(screenID))) {
		options = append(options, models.VoteOption{ID: entry.Key, Label: store.AsString(entry.Val)})
	}
	return options
}

func (s *VoteService) SetMaxVotes(screenID string, maxVotes int) error {
	if maxVotes < 1 {
		return validationf("max votes must be at least 1")
	}
	return s.store.Set(store.Join(s.settingsPath(screenID), "maxVotes"), maxVotes)
}

func (s *VoteService) SetEnabled(screenID string, enabled bool) error {
	return s.store.Set(store.Join(s.settingsPath(screenID), "enabled"), enabled)
}

func (s *VoteService) SetShowResults(screenID string, show bool) error {
	return s.store.Set(store.Join(s.settingsPath(screenID), "showResults"), show)
}

// Settings reads the vote settings, defaulting absent fields.
func (s *VoteService) Settings(screenID string) models.VoteSettings {
	v := s.store.Get(s.settingsPath(screenID))
	settings := models.VoteSettings{
		Enabled:     store.AsBool(store.Child(v, "enabled")),
		MaxVotes:    int(store.AsInt(store.Child(v, "maxVotes"))),
		ShowResults: store.AsBool(store.Child(v, "showResults")),
	}
	if settings.MaxVotes < 1 {
		settings.MaxVotes = models.DefaultMaxVotes
	}
	return settings
}

// CastVote records or clears a user's selection of one option. Before a new
// selection is written, the user's current selected count is recomputed and
// the write is rejected once maxVotes is reached. The check races against
// writes from the same user's other sessions; it is not linearized across
// clients.
func (s *VoteService) CastVote(screenID string, uid string, optionID string, selected bool) error {
	settings := s.Settings(screenID)
	if !settings.Enabled {
		return validationf("voting is not open")
	}
	myVotes := s.UserVotes(screenID, uid)
	if selected && !myVotes[optionID] {
		count := 0
		for _, on := range myVotes {
			if on {
				count++
			}
		}
		if count >= settings.MaxVotes {
			return validationf("cannot vote more than %d", settings.MaxVotes)
		}
	}
	return s.store.Set(store.Join(s.votesPath(screenID), uid, optionID), selected)
}

// UserVotes returns one user's current selections.
func (s *VoteService) UserVotes(screenID string, uid string) map[string]bool {
	votes := map[string]bool{}
	for _, entry := range store.Entries(s.store.Get(store.Join(s.votesPath(screenID), uid))) {
		votes[entry.Key] = store.AsBool(entry.Val)
	}
	return votes
}

// ComputeResults tallies every option across all users, sorted by vote count
// descending with ties in option order. A pure function of the votes subtree:
// recomputing without intervening writes yields identical output.
func (s *VoteService) ComputeResults(screenID string) []models.VoteResult {
	allVotes := store.Entries(s.store.Get(s.votesPath(screenID)))
	var results []models.VoteResult
	for _, option := range s.Options(screenID) {
		count := 0
		for _, voter := range allVotes {
			if store.AsBool(store.Child(voter.Val, option.ID)) {
				count++
			}
		}
		results = append(results, models.VoteResult{OptionID: option.ID, Label: option.Label, Votes: count})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})
	return results
}
