// Package voting implements the like/dislike state machine of a sauce.
//
// Apply is pure: it never mutates its input and cannot fail. Callers load the
// vote state, apply an action and write the returned state back.
package voting

import "fmt"

// Action is a requested vote operation.
type Action int

const (
	Dislike Action = -1
	Reset   Action = 0
	Like    Action = 1
)

// ParseAction converts the wire value of a vote into an Action.
func ParseAction(v int) (Action, error) {
	switch Action(v) {
	case Dislike, Reset, Like:
		return Action(v), nil
	}
	return Reset, fmt.Errorf("invalid vote action %d", v)
}

func (a Action) String() string {
	switch a {
	case Like:
		return "like"
	case Dislike:
		return "dislike"
	case Reset:
		return "reset"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// State is the vote tally of one sauce.
//
// Invariants kept by Apply: Likes == len(UsersLiked), Dislikes ==
// len(UsersDisliked), no user appears twice or in both lists.
type State struct {
	Likes         int
	Dislikes      int
	UsersLiked    []string
	UsersDisliked []string
}

// Transition reports the user's vote before and after Apply.
type Transition struct {
	Previous Action
	Next     Action
}

// Apply clears any previous vote of userID and then records action.
// Applying the same action twice yields the same state as applying it once.
func Apply(s State, action Action, userID string) (State, Transition) {
	previous := Reset
	switch {
	case contains(s.UsersDisliked, userID):
		previous = Dislike
	case contains(s.UsersLiked, userID):
		previous = Like
	}

	liked := without(s.UsersLiked, userID)
	disliked := without(s.UsersDisliked, userID)

	switch action {
	case Like:
		liked = append(liked, userID)
	case Dislike:
		disliked = append(disliked, userID)
	}

	next := State{
		Likes:         len(liked),
		Dislikes:      len(disliked),
		UsersLiked:    liked,
		UsersDisliked: disliked,
	}
	return next, Transition{Previous: previous, Next: action}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// without returns a fresh copy of ids with every occurrence of id removed
// and duplicates collapsed.
func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	seen := make(map[string]struct{}, len(ids))
	for _, v := range ids {
		if v == id {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
