package session

import (
	"context"
	"sync"
	"time"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

type sentMessage struct {
	Chat domain.ChatID
	Text string
	HTML bool
}

type sentDocument struct {
	Chat domain.ChatID
	URL  string
}

// fakeClient is an in-memory domain.PlatformClient recording every send.
type fakeClient struct {
	self       domain.User
	updates    chan domain.Update
	admins     map[domain.ChatID][]domain.UserID
	adminErr   error
	adminDelay time.Duration

	mu         sync.Mutex
	messages   []sentMessage
	documents  []sentDocument
	adminCalls int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		self:    domain.User{ID: 1000, Username: "GabelnBot"},
		updates: make(chan domain.Update, 16),
		admins:  make(map[domain.ChatID][]domain.UserID),
	}
}

func (f *fakeClient) Updates() <-chan domain.Update { return f.updates }

func (f *fakeClient) Self() domain.User { return f.self }

func (f *fakeClient) Send(_ context.Context, chat domain.ChatID, text string, html bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{Chat: chat, Text: text, HTML: html})
	return nil
}

func (f *fakeClient) SendDocument(_ context.Context, chat domain.ChatID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents = append(f.documents, sentDocument{Chat: chat, URL: url})
	return nil
}

func (f *fakeClient) GetAdministrators(_ context.Context, chat domain.ChatID) ([]domain.UserID, error) {
	if f.adminDelay > 0 {
		time.Sleep(f.adminDelay)
	}

	f.mu.Lock()
	f.adminCalls++
	f.mu.Unlock()

	if f.adminErr != nil {
		return nil, f.adminErr
	}
	return f.admins[chat], nil
}

func (f *fakeClient) sentMessages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *fakeClient) sentDocuments() []sentDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentDocument, len(f.documents))
	copy(out, f.documents)
	return out
}

func (f *fakeClient) messagesTo(chat domain.ChatID) []sentMessage {
	var out []sentMessage
	for _, msg := range f.sentMessages() {
		if msg.Chat == chat {
			out = append(out, msg)
		}
	}
	return out
}

// fakeGifs is an in-memory domain.GifProvider.
type fakeGifs struct {
	url string
	err error

	mu    sync.Mutex
	calls int
}

func (f *fakeGifs) SearchGif(context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func (f *fakeGifs) searchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSource is an in-memory domain.EventSource.
type fakeSource struct {
	events chan domain.ForkEvent
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan domain.ForkEvent, 16)}
}

func (f *fakeSource) Updates() <-chan domain.ForkEvent { return f.events }
