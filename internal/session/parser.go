package session

import (
	"regexp"
	"strings"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

// commandPattern matches the leading token of a message against the
// /<name>[@<mention>] command form.
var commandPattern = regexp.MustCompile(`^/([A-Za-z0-9_]+)(?:@([A-Za-z0-9_]+))?$`)

// ParseCommand decides whether a message text is a command directed at
// this bot. A command carrying an @mention is directed only when the
// mention matches botUsername exactly; without a mention it is directed
// only in a private chat, since group chats may host several bots.
// ParseCommand is a pure function.
func ParseCommand(text string, private bool, botUsername string) domain.Command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return domain.Command{Kind: domain.CommandNone}
	}

	match := commandPattern.FindStringSubmatch(fields[0])
	if match == nil {
		return domain.Command{Kind: domain.CommandNone}
	}

	name, mention := match[1], match[2]
	if mention != "" {
		if mention != botUsername {
			return domain.Command{Kind: domain.CommandNone}
		}
	} else if !private {
		return domain.Command{Kind: domain.CommandNone}
	}

	switch name {
	case "start":
		return domain.Command{Kind: domain.CommandStart, Name: name}
	case "stop":
		return domain.Command{Kind: domain.CommandStop, Name: name}
	default:
		return domain.Command{Kind: domain.CommandUnknown, Name: name}
	}
}
