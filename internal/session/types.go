// Package session persists per-user conversation state for the storefront
// dialog. Writes are last-write-wins; concurrent updates from the same user
// are not serialized.
package session

import "context"

// State identifies a conversation step of the shop dialog.
type State string

const (
	// StateNone means the user has no active session.
	StateNone State = ""
	// StateMenu is the product menu step.
	StateMenu State = "menu"
	// StateCart is the cart view step.
	StateCart State = "cart"
	// StateWaitingEmail means the bot expects an email address as free text.
	StateWaitingEmail State = "waiting_email"
)

// Manager stores and retrieves conversation state keyed by Telegram user id.
type Manager interface {
	// State returns the current state, or StateNone when the user has no session.
	State(ctx context.Context, userID int64) (State, error)
	// SetState creates or overwrites the session for the user.
	SetState(ctx context.Context, userID int64, st State) error
	// Clear removes the session entirely.
	Clear(ctx context.Context, userID int64) error
}
