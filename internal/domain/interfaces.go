package domain

import "context"

// PlatformClient is the chat platform capability consumed by the session
// router. Implemented by the Telegram infrastructure adapter.
type PlatformClient interface {
	// Updates returns the live update stream. The channel is closed when
	// the platform stream terminates, which the router treats as fatal.
	Updates() <-chan Update

	// Send sends a text message to a chat. When html is true the text is
	// delivered with HTML formatting enabled.
	Send(ctx context.Context, chat ChatID, text string, html bool) error

	// SendDocument sends a document to a chat by URL.
	SendDocument(ctx context.Context, chat ChatID, url string) error

	// GetAdministrators fetches the administrator list of a group-like
	// chat. Not valid for private chats.
	GetAdministrators(ctx context.Context, chat ChatID) ([]UserID, error)

	// Self returns the bot's own identity, resolved once at startup.
	Self() User
}

// GifProvider looks up a gif to attach to notifications. A failed lookup
// returns ErrNoGif and is never fatal.
type GifProvider interface {
	SearchGif(ctx context.Context) (string, error)
}

// EventSource delivers newly collected fork events. The channel is closed
// when the source shuts down, which the router treats as fatal.
type EventSource interface {
	Updates() <-chan ForkEvent
}

// EventStore is the read-only view over all collected fork events,
// consumed by the HTTP feed surface.
type EventStore interface {
	Snapshot() []ForkEvent
}
