package domain

import "time"

// ChatID identifies a Telegram conversation. It is the sole map key for
// all per-chat state.
type ChatID int64

// UserID identifies a Telegram user.
type UserID int64

// Chat carries the chat identity together with its directness. Private
// chats never require administrator resolution.
type Chat struct {
	ID      ChatID
	Private bool
}

// User represents the bot's own Telegram identity.
type User struct {
	ID       UserID
	Username string
}

// Message is an inbound text message from the chat platform.
type Message struct {
	Chat Chat
	From UserID
	Text string
}

// Update is a tagged variant over the inbound platform update kinds the
// router cares about. Exactly one field is non-nil; anything else the
// platform produces is dropped before it reaches the router.
type Update struct {
	// Message is set when a user sent a text message.
	Message *Message

	// BotRemoved is set when the bot account was removed from a chat.
	BotRemoved *Chat
}

// ForkEvent is a single "user forked a repository" event collected from
// GitHub. Immutable once constructed.
type ForkEvent struct {
	ID             string
	Actor          string
	ActorAvatarURL string
	Repo           string
	ForkFullName   string
	ForkURL        string
	CreatedAt      time.Time
}

// CommandKind enumerates the recognized bot commands.
type CommandKind int

const (
	// CommandNone means the text is not a command directed at this bot.
	CommandNone CommandKind = iota
	// CommandStart enables fork notifications for a chat.
	CommandStart
	// CommandStop disables fork notifications for a chat.
	CommandStop
	// CommandUnknown is a directed command with an unrecognized name.
	CommandUnknown
)

// Command is the result of parsing a message text. Name is set for every
// kind except CommandNone.
type Command struct {
	Kind CommandKind
	Name string
}
