package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Notices sent back to chats. Authorization failures and unknown commands
// are normal outcomes, not errors.
const (
	msgStarted        = "Fork notifications enabled for this chat!"
	msgAlreadyRunning = "Fork notifications are already enabled!"
	msgStopped        = "Fork notifications disabled for this chat!"
	msgNotRunning     = "Fork notifications are not enabled for this chat!"
	msgUnauthorized   = "Only chat administrators can manage fork notifications!"
)

// Router merges the platform update stream and the fork event stream into
// a single processing loop, routes administrator commands, and broadcasts
// notifications to subscribed chats. All outbound sends are detached and
// never block the loop; the asynchronous admin resolution is the only
// work that completes out-of-band.
type Router struct {
	client   domain.PlatformClient
	gifs     domain.GifProvider
	registry *Registry
	events   <-chan domain.ForkEvent
	trigger  string
	logger   zerolog.Logger
}

// NewRouter creates a new session router
func NewRouter(
	client domain.PlatformClient,
	gifs domain.GifProvider,
	registry *Registry,
	source domain.EventSource,
	trigger string,
	logger zerolog.Logger,
) *Router {
	return &Router{
		client:   client,
		gifs:     gifs,
		registry: registry,
		events:   source.Updates(),
		trigger:  trigger,
		logger:   logger,
	}
}

// Run consumes the merged stream until the context is cancelled or either
// source stream closes. A closed source is fatal: the bot cannot function
// without it, and the returned error signals the process to shut down.
// Per-source ordering is preserved; interleaving is first-ready.
func (r *Router) Run(ctx context.Context) error {
	updates := r.client.Updates()

	r.logger.Info().
		Str("username", r.client.Self().Username).
		Msg("Session router started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return domain.ErrUpdateStreamClosed
			}
			r.handleUpdate(ctx, update)
		case event, ok := <-r.events:
			if !ok {
				return domain.ErrEventStreamClosed
			}
			r.broadcast(ctx, event)
		}
	}
}

func (r *Router) handleUpdate(ctx context.Context, update domain.Update) {
	switch {
	case update.BotRemoved != nil:
		r.logger.Info().
			Int64("chat_id", int64(update.BotRemoved.ID)).
			Msg("Bot removed from chat, dropping its state")
		r.registry.Forget(update.BotRemoved.ID)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *domain.Message) {
	chat := msg.Chat

	// First contact with a group-like chat kicks off its admin
	// resolution; commands arriving before it completes fail closed.
	r.registry.EnsureAdmins(ctx, chat)

	cmd := ParseCommand(msg.Text, chat.Private, r.client.Self().Username)

	switch cmd.Kind {
	case domain.CommandStart:
		r.handleStart(ctx, chat, msg.From)
	case domain.CommandStop:
		r.handleStop(ctx, chat, msg.From)
	case domain.CommandUnknown:
		r.logger.Debug().
			Int64("chat_id", int64(chat.ID)).
			Str("command", cmd.Name).
			Msg("Unknown command")
		r.reply(ctx, chat.ID, fmt.Sprintf("Unknown command /%s!", cmd.Name))
	case domain.CommandNone:
		if r.trigger != "" && strings.Contains(msg.Text, r.trigger) && r.registry.IsActive(chat.ID) {
			r.sendGif(ctx, chat.ID)
		}
	}
}

func (r *Router) handleStart(ctx context.Context, chat domain.Chat, from domain.UserID) {
	if !r.registry.IsAuthorized(chat, from) {
		r.reply(ctx, chat.ID, msgUnauthorized)
		return
	}

	if r.registry.IsActive(chat.ID) {
		r.reply(ctx, chat.ID, msgAlreadyRunning)
		return
	}

	r.registry.SetActive(chat.ID, true)
	r.logger.Info().Int64("chat_id", int64(chat.ID)).Msg("Notifications enabled")
	r.reply(ctx, chat.ID, msgStarted)
}

func (r *Router) handleStop(ctx context.Context, chat domain.Chat, from domain.UserID) {
	if !r.registry.IsAuthorized(chat, from) {
		r.reply(ctx, chat.ID, msgUnauthorized)
		return
	}

	if !r.registry.IsActive(chat.ID) {
		r.reply(ctx, chat.ID, msgNotRunning)
		return
	}

	r.registry.SetActive(chat.ID, false)
	r.logger.Info().Int64("chat_id", int64(chat.ID)).Msg("Notifications disabled")
	r.reply(ctx, chat.ID, msgStopped)
}

// broadcast delivers a fork event to every subscribed chat. One gif is
// looked up per broadcast round and the same URL is sent to every
// recipient, keeping external calls bounded.
func (r *Router) broadcast(ctx context.Context, event domain.ForkEvent) {
	chats := r.registry.ActiveChats()
	if len(chats) == 0 {
		return
	}

	text := formatEvent(event)

	r.logger.Info().
		Str("actor", event.Actor).
		Str("repo", event.Repo).
		Int("chats", len(chats)).
		Msg("Broadcasting fork event")

	for _, chat := range chats {
		chat := chat
		go func() {
			if err := r.client.Send(ctx, chat, text, true); err != nil {
				r.logger.Error().Err(err).
					Int64("chat_id", int64(chat)).
					Msg("Failed to send notification")
			}
		}()
	}

	go func() {
		url, err := r.gifs.SearchGif(ctx)
		if err != nil {
			r.logger.Warn().Err(err).Msg("Skipping gif for this broadcast")
			return
		}
		for _, chat := range chats {
			chat := chat
			go func() {
				if err := r.client.SendDocument(ctx, chat, url); err != nil {
					r.logger.Error().Err(err).
						Int64("chat_id", int64(chat)).
						Msg("Failed to send gif")
				}
			}()
		}
	}()
}

// reply sends a notice to a single chat without blocking the loop.
func (r *Router) reply(ctx context.Context, chat domain.ChatID, text string) {
	go func() {
		if err := r.client.Send(ctx, chat, text, false); err != nil {
			r.logger.Error().Err(err).
				Int64("chat_id", int64(chat)).
				Msg("Failed to send message")
		}
	}()
}

// sendGif fetches a gif and sends it to a single chat.
func (r *Router) sendGif(ctx context.Context, chat domain.ChatID) {
	go func() {
		url, err := r.gifs.SearchGif(ctx)
		if err != nil {
			r.logger.Warn().Err(err).
				Int64("chat_id", int64(chat)).
				Msg("No gif for trigger message")
			return
		}
		if err := r.client.SendDocument(ctx, chat, url); err != nil {
			r.logger.Error().Err(err).
				Int64("chat_id", int64(chat)).
				Msg("Failed to send gif")
		}
	}()
}

func formatEvent(event domain.ForkEvent) string {
	return fmt.Sprintf(
		`<b>%s</b> forked <a href="https://github.com/%s">%s</a> at <a href=%q>%s</a>!`,
		event.Actor, event.Repo, event.Repo, event.ForkURL, event.ForkFullName,
	)
}
