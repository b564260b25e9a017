// Package feed builds the Atom feed over the collected fork events.
package feed

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// Build renders the fork event history as an Atom feed, newest entry
// first. The feed's updated time is the newest event's creation time, or
// now when the history is empty.
func Build(events []domain.ForkEvent) (string, error) {
	updated := time.Now()
	if n := len(events); n > 0 {
		updated = events[n-1].CreatedAt
	}

	atom := &feeds.Feed{
		Title:       "gabeln.jetzt",
		Id:          "gabeln.jetzt",
		Link:        &feeds.Link{Href: "/atom.xml", Rel: "self"},
		Description: "GitHub Fork Feed",
		Updated:     updated,
	}

	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]
		atom.Items = append(atom.Items, &feeds.Item{
			Id:      event.ID,
			Title:   fmt.Sprintf("%s forked %s", event.Actor, event.Repo),
			Link:    &feeds.Link{Href: event.ForkURL},
			Author:  &feeds.Author{Name: event.Actor},
			Created: event.CreatedAt,
			Updated: event.CreatedAt,
			Description: fmt.Sprintf(
				"%s was forked by %s at %s.",
				event.Repo, event.Actor, event.ForkFullName,
			),
			Content: fmt.Sprintf(
				`<a href=%q><img src=%q/></a>`,
				event.ForkURL, event.ActorAvatarURL,
			),
		})
	}

	xml, err := atom.ToAtom()
	if err != nil {
		return "", fmt.Errorf("failed to build atom feed: %w", err)
	}
	return xml, nil
}
