package services

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/store"
)

func newVoteScreen(t *testing.T) (*VoteService, string) {
	t.Helper()
	tree := store.NewMemoryStore()
	screenID, err := NewScreenService(tree).CreateScreen(models.SceneVote)
	assert.Equal(t, err, nil)
	return NewVoteService(tree), screenID
}

func TestSetOptionsAssignsStableKeys(t *testing.T) {
	s, screen := newVoteScreen(t)

	assert.Equal(t, s.SetOptions(screen, "JavaScript/TypeScript//Python/Go"), nil)

	options := s.Options(screen)
	assert.Equal(t, len(options), 4)
	assert.Equal(t, options[0], models.VoteOption{ID: "option00", Label: "JavaScript"})
	assert.Equal(t, options[1], models.VoteOption{ID: "option01", Label: "TypeScript"})
	assert.Equal(t, options[2], models.VoteOption{ID: "option02", Label: "Python"})
	assert.Equal(t, options[3], models.VoteOption{ID: "option03", Label: "Go"})
}

func TestSetOptionsOverwritesPriorVotesBecomeOrphaned(t *testing.T) {
	s, screen := newVoteScreen(t)

	s.SetOptions(screen, "A/B/C")
	s.SetEnabled(screen, true)
	assert.Equal(t, s.CastVote(screen, "alice", "option02", true), nil)

	// Shrinking the option set orphans alice's vote on option02; it no
	// longer matches any rendered option.
	s.SetOptions(screen, "A/B")
	results := s.ComputeResults(screen)
	assert.Equal(t, len(results), 2)
	for _, r := range results {
		assert.Equal(t, r.Votes, 0)
	}
}

func TestDefaultSettings(t *testing.T) {
	s, screen := newVoteScreen(t)

	settings := s.Settings(screen)
	assert.Equal(t, settings.Enabled, false)
	assert.Equal(t, settings.MaxVotes, 1)
	assert.Equal(t, settings.ShowResults, false)
}

func TestCastVoteRequiresOpenVoting(t *testing.T) {
	s, screen := newVoteScreen(t)

	s.SetOptions(screen, "A/B")
	err := s.CastVote(screen, "alice", "option00", true)
	assert.Equal(t, IsValidation(err), true)
}

func TestVoteLimitEnforced(t *testing.T) {
	s, screen := newVoteScreen(t)

	s.SetOptions(screen, "A/B/C/D")
	s.SetEnabled(screen, true)
	s.SetMaxVotes(screen, 2)

	assert.Equal(t, s.CastVote(screen, "alice", "option00", true), nil)
	assert.Equal(t, s.CastVote(screen, "alice", "option01", true), nil)

	err := s.CastVote(screen, "alice", "option02", true)
	assert.Equal(t, IsValidation(err), true)

	// Re-selecting an already selected option is a no-op, not a violation.
	assert.Equal(t, s.CastVote(screen, "alice", "option00", true), nil)

	// Deselecting frees a slot.
	assert.Equal(t, s.CastVote(screen, "alice", "option01", false), nil)
	assert.Equal(t, s.CastVote(screen, "alice", "option02", true), nil)

	votes := s.UserVotes(screen, "alice")
	assert.Equal(t, votes["option00"], true)
	assert.Equal(t, votes["option01"], false)
	assert.Equal(t, votes["option02"], true)
}

func TestMaxVotesValidation(t *testing.T) {
	s, screen := newVoteScreen(t)
	assert.Equal(t, IsValidation(s.SetMaxVotes(screen, 0)), true)
}

func TestVoteScenarioEndToEnd(t *testing.T) {
	s, screen := newVoteScreen(t)

	s.SetOptions(screen, "JavaScript/TypeScript/Python/Go")
	s.SetEnabled(screen, true)

	assert.Equal(t, s.CastVote(screen, "userA", "option01", true), nil) // TypeScript
	assert.Equal(t, s.CastVote(screen, "userB", "option00", true), nil) // JavaScript

	results := s.ComputeResults(screen)
	votesByLabel := map[string]int{}
	for _, r := range results {
		votesByLabel[r.Label] = r.Votes
	}
	assert.Equal(t, votesByLabel, map[string]int{
		"TypeScript": 1,
		"JavaScript": 1,
		"Python":     0,
		"Go":         0,
	})

	// Sorted by votes descending, ties keeping option order.
	assert.Equal(t, results[0].Label, "JavaScript")
	assert.Equal(t, results[1].Label, "TypeScript")
	assert.Equal(t, results[2].Votes, 0)
	assert.Equal(t, results[3].Votes, 0)
}

func TestComputeResultsIsPure(t *testing.T) {
	s, screen := newVoteScreen(t)

	s.SetOptions(screen, "A/B")
	s.SetEnabled(screen, true)
	s.CastVote(screen, "alice", "option00", true)
	s.CastVote(screen, "bob", "option00", true)

	first := s.ComputeResults(screen)
	second := s.ComputeResults(screen)
	assert.Equal(t, first, second)
}

func TestComputeResultsTreatsMissingSubtreeAsEmpty(t *testing.T) {
	s, screen := newVoteScreen(t)
	assert.Equal(t, len(s.ComputeResults(screen)), 0)
}
