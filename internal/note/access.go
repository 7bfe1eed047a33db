package note

import "strings"

// Intent classifies what an actor wants to do with a note.
type Intent string

const (
	IntentRead   Intent = "read"
	IntentEdit   Intent = "edit"
	IntentDelete Intent = "delete"
)

// CanAccess reports whether actorID may perform intent on the note.
//
// The policy is ownership equality: only the author may read, edit, or
// delete a note. Listing is filtered at the storage layer rather than gated
// here. Anonymous actors (empty actorID) are always denied; redirecting them
// to an authentication flow is the web layer's job.
func CanAccess(actorID string, n Note, intent Intent) bool {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return false
	}
	switch intent {
	case IntentRead, IntentEdit, IntentDelete:
		return actorID == n.AuthorID
	default:
		return false
	}
}
