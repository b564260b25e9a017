// Package github contains the GitHub event collector
package github

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-github/v68/github"
	"github.com/rs/zerolog"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Collector fetches the public fork events of the tracked GitHub users.
type Collector struct {
	client *github.Client
	users  []string
	logger zerolog.Logger
}

// NewCollector creates a new collector for the given GitHub logins
func NewCollector(users []string, logger zerolog.Logger) *Collector {
	return &Collector{
		client: github.NewClient(nil),
		users:  users,
		logger: logger,
	}
}

// Collect pages through each tracked user's public events, keeps fork
// events only, and returns them sorted ascending by creation time.
func (c *Collector) Collect(ctx context.Context) ([]domain.ForkEvent, error) {
	var all []domain.ForkEvent

	for _, user := range c.users {
		events, err := c.collectUser(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events for %s: %w", user, err)
		}
		all = append(all, events...)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	c.logger.Debug().Int("events", len(all)).Msg("Collected fork events")

	return all, nil
}

func (c *Collector) collectUser(ctx context.Context, login string) ([]domain.ForkEvent, error) {
	opts := &github.ListOptions{PerPage: 100}
	var out []domain.ForkEvent

	for {
		events, resp, err := c.client.Activity.ListEventsPerformedByUser(ctx, login, true, opts)
		if err != nil {
			return nil, err
		}

		for _, event := range events {
			if forkEvent, ok := convertEvent(event); ok {
				out = append(out, forkEvent)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return out, nil
}

// convertEvent maps a raw GitHub event to a domain fork event. Events of
// other types, or fork events without a forkee payload, are skipped.
func convertEvent(event *github.Event) (domain.ForkEvent, bool) {
	if event.GetType() != "ForkEvent" {
		return domain.ForkEvent{}, false
	}

	payload, err := event.ParsePayload()
	if err != nil {
		return domain.ForkEvent{}, false
	}

	fork, ok := payload.(*github.ForkEvent)
	if !ok || fork.Forkee == nil {
		return domain.ForkEvent{}, false
	}

	return domain.ForkEvent{
		ID:             event.GetID(),
		Actor:          event.GetActor().GetLogin(),
		ActorAvatarURL: event.GetActor().GetAvatarURL(),
		Repo:           event.GetRepo().GetName(),
		ForkFullName:   fork.Forkee.GetFullName(),
		ForkURL:        fork.Forkee.GetHTMLURL(),
		CreatedAt:      event.GetCreatedAt().Time,
	}, true
}
