// Package session contains the chat session state and the command router.
package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Registry holds the per-chat state shared between the router loop and
// the asynchronous administrator fetches: the cached admin sets and the
// set of chats subscribed to notifications. Every mutation happens in a
// short critical section; no network call is made while the lock is held.
type Registry struct {
	client domain.PlatformClient
	logger zerolog.Logger

	mu     sync.Mutex
	admins map[domain.ChatID]map[domain.UserID]struct{}
	active map[domain.ChatID]struct{}

	// fetches collapses concurrent admin fetches for the same chat into
	// one in-flight request.
	fetches singleflight.Group
}

// NewRegistry creates a new chat registry
func NewRegistry(client domain.PlatformClient, logger zerolog.Logger) *Registry {
	return &Registry{
		client: client,
		logger: logger,
		admins: make(map[domain.ChatID]map[domain.UserID]struct{}),
		active: make(map[domain.ChatID]struct{}),
	}
}

// EnsureAdmins makes sure the administrator set of a group-like chat is
// resolved. Private chats need no admin record. The fetch runs
// asynchronously and never blocks the caller; until it completes,
// authorization for the chat fails closed.
func (r *Registry) EnsureAdmins(ctx context.Context, chat domain.Chat) {
	if chat.Private {
		return
	}

	r.mu.Lock()
	_, cached := r.admins[chat.ID]
	r.mu.Unlock()
	if cached {
		return
	}

	go func() {
		key := strconv.FormatInt(int64(chat.ID), 10)
		_, err, _ := r.fetches.Do(key, func() (interface{}, error) {
			admins, err := r.client.GetAdministrators(ctx, chat.ID)
			if err != nil {
				return nil, err
			}

			set := make(map[domain.UserID]struct{}, len(admins))
			for _, id := range admins {
				set[id] = struct{}{}
			}

			r.mu.Lock()
			r.admins[chat.ID] = set
			r.mu.Unlock()

			r.logger.Debug().
				Int64("chat_id", int64(chat.ID)).
				Int("admins", len(set)).
				Msg("Chat administrators resolved")

			return nil, nil
		})
		if err != nil {
			r.logger.Error().Err(err).
				Int64("chat_id", int64(chat.ID)).
				Msg("Failed to resolve chat administrators")
		}
	}()
}

// IsAuthorized reports whether a user may manage the chat's subscription.
// Private chats are always authorized. Group-like chats authorize only
// cached administrators; an unresolved chat authorizes nobody.
func (r *Registry) IsAuthorized(chat domain.Chat, user domain.UserID) bool {
	if chat.Private {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.admins[chat.ID]
	if !ok {
		return false
	}
	_, ok = set[user]
	return ok
}

// SetActive toggles the chat's notification subscription. Idempotent.
func (r *Registry) SetActive(chat domain.ChatID, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if active {
		r.active[chat] = struct{}{}
	} else {
		delete(r.active, chat)
	}
}

// IsActive reports whether the chat is subscribed to notifications.
func (r *Registry) IsActive(chat domain.ChatID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.active[chat]
	return ok
}

// ActiveChats returns a snapshot of all subscribed chats.
func (r *Registry) ActiveChats() []domain.ChatID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ChatID, 0, len(r.active))
	for chat := range r.active {
		out = append(out, chat)
	}
	return out
}

// Forget drops all state for a chat; called when the bot account is
// removed from it.
func (r *Registry) Forget(chat domain.ChatID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.admins, chat)
	delete(r.active, chat)
}
