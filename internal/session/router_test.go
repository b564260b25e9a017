package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

type routerFixture struct {
	client   *fakeClient
	gifs     *fakeGifs
	source   *fakeSource
	registry *Registry
	router   *Router
	done     chan error
	cancel   context.CancelFunc
}

func startRouter(t *testing.T, client *fakeClient, gifs *fakeGifs) *routerFixture {
	t.Helper()

	source := newFakeSource()
	registry := NewRegistry(client, zerolog.Nop())
	router := NewRouter(client, gifs, registry, source, "gabeln.jetzt", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- router.Run(ctx)
	}()
	t.Cleanup(cancel)

	return &routerFixture{
		client:   client,
		gifs:     gifs,
		source:   source,
		registry: registry,
		router:   router,
		done:     done,
		cancel:   cancel,
	}
}

func (f *routerFixture) message(chat domain.Chat, from domain.UserID, text string) {
	f.client.updates <- domain.Update{Message: &domain.Message{Chat: chat, From: from, Text: text}}
}

func (f *routerFixture) waitForReply(t *testing.T, chat domain.ChatID, text string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, msg := range f.client.messagesTo(chat) {
			if msg.Text == text {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRouterPrivateStartAndBroadcast(t *testing.T) {
	client := newFakeClient()
	gifs := &fakeGifs{url: "https://giphy.example/fork.gif"}
	f := startRouter(t, client, gifs)

	f.message(privateChat, 42, "/start")
	f.waitForReply(t, privateChat.ID, msgStarted)
	require.True(t, f.registry.IsActive(privateChat.ID))

	f.source.events <- domain.ForkEvent{
		ID:           "ev-1",
		Actor:        "alice",
		Repo:         "x",
		ForkFullName: "alice/x",
		ForkURL:      "https://github.com/alice/x",
		CreatedAt:    time.Now(),
	}

	require.Eventually(t, func() bool {
		return len(f.client.sentDocuments()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	var notifications []sentMessage
	for _, msg := range f.client.messagesTo(privateChat.ID) {
		if msg.HTML {
			notifications = append(notifications, msg)
		}
	}
	require.Len(t, notifications, 1)
	require.Contains(t, notifications[0].Text, "alice")
	require.Contains(t, notifications[0].Text, "x")

	docs := f.client.sentDocuments()
	require.Equal(t, privateChat.ID, docs[0].Chat)
	require.Equal(t, "https://giphy.example/fork.gif", docs[0].URL)
}

func TestRouterStartIsIdempotent(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	f.message(privateChat, 42, "/start")
	f.waitForReply(t, privateChat.ID, msgStarted)

	f.message(privateChat, 42, "/start")
	f.waitForReply(t, privateChat.ID, msgAlreadyRunning)

	require.Len(t, f.registry.ActiveChats(), 1)
}

func TestRouterStopWhenNotRunning(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	f.message(privateChat, 42, "/stop")
	f.waitForReply(t, privateChat.ID, msgNotRunning)
	require.False(t, f.registry.IsActive(privateChat.ID))
}

func TestRouterGroupAuthorization(t *testing.T) {
	client := newFakeClient()
	client.admins[groupChat.ID] = []domain.UserID{1}
	f := startRouter(t, client, &fakeGifs{url: "u"})

	// First contact resolves the admin set.
	f.message(groupChat, 1, "hello")
	require.Eventually(t, func() bool {
		return f.registry.IsAuthorized(groupChat, 1)
	}, 2*time.Second, 10*time.Millisecond)

	// A non-admin cannot toggle anything.
	f.message(groupChat, 2, "/stop@GabelnBot")
	f.waitForReply(t, groupChat.ID, msgUnauthorized)
	require.False(t, f.registry.IsActive(groupChat.ID))

	// An admin stopping an inactive chat gets the no-op notice.
	f.message(groupChat, 1, "/stop@GabelnBot")
	f.waitForReply(t, groupChat.ID, msgNotRunning)
	require.False(t, f.registry.IsActive(groupChat.ID))
}

func TestRouterGroupFailsClosedWhilePending(t *testing.T) {
	client := newFakeClient()
	client.admins[groupChat.ID] = []domain.UserID{1}
	client.adminDelay = 200 * time.Millisecond
	f := startRouter(t, client, &fakeGifs{url: "u"})

	// The admin fetch is still in flight when the command arrives, so
	// even a real admin is rejected; a later retry succeeds.
	f.message(groupChat, 1, "/start@GabelnBot")
	f.waitForReply(t, groupChat.ID, msgUnauthorized)
	require.False(t, f.registry.IsActive(groupChat.ID))

	require.Eventually(t, func() bool {
		return f.registry.IsAuthorized(groupChat, 1)
	}, 2*time.Second, 10*time.Millisecond)

	f.message(groupChat, 1, "/start@GabelnBot")
	f.waitForReply(t, groupChat.ID, msgStarted)
	require.True(t, f.registry.IsActive(groupChat.ID))
}

func TestRouterUnknownCommand(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	f.message(privateChat, 42, "/frobnicate")
	f.waitForReply(t, privateChat.ID, "Unknown command /frobnicate!")
	require.Empty(t, f.registry.ActiveChats())
}

func TestRouterTriggerSendsGifToActiveChatOnly(t *testing.T) {
	client := newFakeClient()
	f := startRouter(t, client, &fakeGifs{url: "https://giphy.example/fork.gif"})

	f.message(privateChat, 42, "/start")
	f.waitForReply(t, privateChat.ID, msgStarted)

	f.message(privateChat, 42, "have you seen gabeln.jetzt today?")
	require.Eventually(t, func() bool {
		return len(f.client.sentDocuments()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, privateChat.ID, f.client.sentDocuments()[0].Chat)
}

func TestRouterTriggerIgnoredInInactiveChat(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	f.message(privateChat, 42, "gabeln.jetzt is great")

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, f.client.sentDocuments())
	require.Zero(t, f.gifs.searchCalls())
}

func TestRouterBotRemovedClearsChatState(t *testing.T) {
	client := newFakeClient()
	client.admins[groupChat.ID] = []domain.UserID{1}
	f := startRouter(t, client, &fakeGifs{url: "u"})

	f.message(groupChat, 1, "hello")
	require.Eventually(t, func() bool {
		return f.registry.IsAuthorized(groupChat, 1)
	}, 2*time.Second, 10*time.Millisecond)

	f.message(groupChat, 1, "/start@GabelnBot")
	f.waitForReply(t, groupChat.ID, msgStarted)

	removed := groupChat
	f.client.updates <- domain.Update{BotRemoved: &removed}

	require.Eventually(t, func() bool {
		return !f.registry.IsActive(groupChat.ID)
	}, 2*time.Second, 10*time.Millisecond)
	require.False(t, f.registry.IsAuthorized(groupChat, 1))
}

func TestRouterSharedGifPerBroadcastRound(t *testing.T) {
	// One gif lookup is shared by all recipients of a broadcast round;
	// every chat still receives its own send.
	client := newFakeClient()
	gifs := &fakeGifs{url: "https://giphy.example/fork.gif"}
	f := startRouter(t, client, gifs)

	other := domain.Chat{ID: 2, Private: true}
	f.message(privateChat, 42, "/start")
	f.waitForReply(t, privateChat.ID, msgStarted)
	f.message(other, 43, "/start")
	f.waitForReply(t, other.ID, msgStarted)

	f.source.events <- domain.ForkEvent{ID: "ev-2", Actor: "bob", Repo: "y", ForkFullName: "bob/y"}

	require.Eventually(t, func() bool {
		return len(f.client.sentDocuments()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, 1, gifs.searchCalls())
	chats := map[domain.ChatID]bool{}
	for _, doc := range f.client.sentDocuments() {
		require.Equal(t, "https://giphy.example/fork.gif", doc.URL)
		chats[doc.Chat] = true
	}
	require.Len(t, chats, 2)
}

func TestRouterGifFailureIsNonFatal(t *testing.T) {
	client := newFakeClient()
	f := startRouter(t, client, &fakeGifs{err: domain.ErrNoGif})

	f.message(privateChat, 42, "/start")
	f.waitForReply(t, privateChat.ID, msgStarted)

	f.source.events <- domain.ForkEvent{ID: "ev-3", Actor: "carol", Repo: "z", ForkFullName: "carol/z"}

	require.Eventually(t, func() bool {
		for _, msg := range f.client.messagesTo(privateChat.ID) {
			if msg.HTML && strings.Contains(msg.Text, "carol") {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, f.client.sentDocuments())
}

func TestRouterBroadcastSkipsWhenNoActiveChats(t *testing.T) {
	gifs := &fakeGifs{url: "u"}
	f := startRouter(t, newFakeClient(), gifs)

	f.source.events <- domain.ForkEvent{ID: "ev-4", Actor: "dave", Repo: "w"}

	time.Sleep(100 * time.Millisecond)
	require.Empty(t, f.client.sentMessages())
	require.Zero(t, gifs.searchCalls())
}

func TestRouterStopsOnClosedUpdateStream(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	close(f.client.updates)

	select {
	case err := <-f.done:
		require.ErrorIs(t, err, domain.ErrUpdateStreamClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("router did not stop on closed update stream")
	}
}

func TestRouterStopsOnClosedEventStream(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	close(f.source.events)

	select {
	case err := <-f.done:
		require.ErrorIs(t, err, domain.ErrEventStreamClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("router did not stop on closed event stream")
	}
}

func TestRouterStopsOnContextCancel(t *testing.T) {
	f := startRouter(t, newFakeClient(), &fakeGifs{url: "u"})

	f.cancel()

	select {
	case err := <-f.done:
		require.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("router did not stop on context cancel")
	}
}
