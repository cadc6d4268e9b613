package voting

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkInvariants(t *testing.T, s State) {
	t.Helper()
	require.Equal(t, len(s.UsersLiked), s.Likes, "likes must equal liked set size")
	require.Equal(t, len(s.UsersDisliked), s.Dislikes, "dislikes must equal disliked set size")

	seen := map[string]string{}
	for _, u := range s.UsersLiked {
		_, dup := seen[u]
		require.Falsef(t, dup, "user %s appears twice in liked set", u)
		seen[u] = "liked"
	}
	for _, u := range s.UsersDisliked {
		where, dup := seen[u]
		require.Falsef(t, dup, "user %s appears in disliked set and %s set", u, where)
		seen[u] = "disliked"
	}
}

func TestApply_NewLike(t *testing.T) {
	s := State{Likes: 3, UsersLiked: []string{"a", "b", "c"}}

	next, tr := Apply(s, Like, "d")

	assert.Equal(t, 4, next.Likes)
	assert.Contains(t, next.UsersLiked, "d")
	assert.Equal(t, Transition{Previous: Reset, Next: Like}, tr)
	assert.Equal(t, OutcomeRecorded, tr.Outcome())
	checkInvariants(t, next)
}

func TestApply_RepeatedLikeIsNoop(t *testing.T) {
	s := State{Likes: 3, UsersLiked: []string{"a", "b", "c"}}

	next, tr := Apply(s, Like, "a")

	assert.Equal(t, 3, next.Likes)
	assert.ElementsMatch(t, s.UsersLiked, next.UsersLiked)
	assert.Equal(t, OutcomeUnchanged, tr.Outcome())
	checkInvariants(t, next)
}

func TestApply_DislikeToLikeMovesUser(t *testing.T) {
	s := State{Likes: 1, Dislikes: 2, UsersLiked: []string{"a"}, UsersDisliked: []string{"b", "u"}}

	next, tr := Apply(s, Like, "u")

	assert.Equal(t, 2, next.Likes)
	assert.Equal(t, 1, next.Dislikes)
	assert.Contains(t, next.UsersLiked, "u")
	assert.NotContains(t, next.UsersDisliked, "u")
	assert.Equal(t, Dislike, tr.Previous)
	assert.Equal(t, OutcomeRecorded, tr.Outcome())
	checkInvariants(t, next)
}

func TestApply_ResetWithoutPriorVote(t *testing.T) {
	s := State{Likes: 1, UsersLiked: []string{"a"}}

	next, tr := Apply(s, Reset, "z")

	assert.Equal(t, 1, next.Likes)
	assert.Equal(t, 0, next.Dislikes)
	assert.Equal(t, OutcomeNothingToUndo, tr.Outcome())
	checkInvariants(t, next)
}

func TestApply_ResetUndoesVote(t *testing.T) {
	s := State{}
	s, _ = Apply(s, Dislike, "u")
	require.Equal(t, 1, s.Dislikes)

	next, tr := Apply(s, Reset, "u")

	assert.Equal(t, 0, next.Dislikes)
	assert.NotContains(t, next.UsersDisliked, "u")
	assert.Equal(t, Transition{Previous: Dislike, Next: Reset}, tr)
	assert.Equal(t, OutcomeUndone, tr.Outcome())
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	liked := []string{"a", "b"}
	disliked := []string{"c"}
	s := State{Likes: 2, Dislikes: 1, UsersLiked: liked, UsersDisliked: disliked}

	_, _ = Apply(s, Dislike, "a")

	assert.Equal(t, []string{"a", "b"}, liked)
	assert.Equal(t, []string{"c"}, disliked)
	assert.Equal(t, 2, s.Likes)
}

func TestApply_RepairsInconsistentState(t *testing.T) {
	s := State{Likes: 7, Dislikes: 0, UsersLiked: []string{"a", "a", "b"}, UsersDisliked: []string{"b"}}

	next, tr := Apply(s, Like, "b")

	assert.Equal(t, Dislike, tr.Previous)
	assert.Equal(t, []string{"a", "b"}, next.UsersLiked)
	assert.Empty(t, next.UsersDisliked)
	checkInvariants(t, next)
}

func TestApply_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	users := []string{"u1", "u2", "u3", "u4", "u5"}
	actions := []Action{Like, Dislike, Reset}

	for run := 0; run < 200; run++ {
		var s State
		votes := map[string]Action{}
		for step := 0; step < 50; step++ {
			u := users[rng.Intn(len(users))]
			a := actions[rng.Intn(len(actions))]

			once, tr := Apply(s, a, u)
			twice, tr2 := Apply(once, a, u)

			checkInvariants(t, once)
			require.Equal(t, votes[u], tr.Previous, "previous vote mismatch")
			require.Equal(t, once, twice, "same action applied twice must be idempotent")
			if a != Reset {
				require.Equal(t, OutcomeUnchanged, tr2.Outcome())
			}
			if a == Reset {
				require.NotContains(t, once.UsersLiked, u)
				require.NotContains(t, once.UsersDisliked, u)
			}

			votes[u] = a
			s = once
		}

		likes, dislikes := 0, 0
		for _, a := range votes {
			switch a {
			case Like:
				likes++
			case Dislike:
				dislikes++
			}
		}
		require.Equal(t, likes, s.Likes, fmt.Sprintf("run %d", run))
		require.Equal(t, dislikes, s.Dislikes, fmt.Sprintf("run %d", run))
	}
}

func TestTransitionOutcome(t *testing.T) {
	tests := []struct {
		prev, next Action
		want       Outcome
	}{
		{Reset, Like, OutcomeRecorded},
		{Reset, Dislike, OutcomeRecorded},
		{Like, Dislike, OutcomeRecorded},
		{Dislike, Like, OutcomeRecorded},
		{Like, Like, OutcomeUnchanged},
		{Dislike, Dislike, OutcomeUnchanged},
		{Reset, Reset, OutcomeNothingToUndo},
		{Like, Reset, OutcomeUndone},
		{Dislike, Reset, OutcomeUndone},
	}
	for _, tc := range tests {
		got := Transition{Previous: tc.prev, Next: tc.next}.Outcome()
		assert.Equalf(t, tc.want, got, "%s -> %s", tc.prev, tc.next)
	}
	assert.True(t, OutcomeRecorded.ReportsCounts())
	assert.True(t, OutcomeUndone.ReportsCounts())
	assert.False(t, OutcomeUnchanged.ReportsCounts())
	assert.False(t, OutcomeNothingToUndo.ReportsCounts())
}

func TestParseAction(t *testing.T) {
	for _, v := range []int{-1, 0, 1} {
		a, err := ParseAction(v)
		require.NoError(t, err)
		assert.Equal(t, Action(v), a)
	}
	_, err := ParseAction(2)
	assert.Error(t, err)
}
