package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gabeln-jetzt/gabeln/internal/domain"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		private bool
		want    domain.Command
	}{
		{
			name:    "start in private chat",
			text:    "/start",
			private: true,
			want:    domain.Command{Kind: domain.CommandStart, Name: "start"},
		},
		{
			name:    "stop in private chat",
			text:    "/stop",
			private: true,
			want:    domain.Command{Kind: domain.CommandStop, Name: "stop"},
		},
		{
			name:    "unmentioned command in group is ignored",
			text:    "/start",
			private: false,
			want:    domain.Command{Kind: domain.CommandNone},
		},
		{
			name:    "mentioned command in group",
			text:    "/start@GabelnBot",
			private: false,
			want:    domain.Command{Kind: domain.CommandStart, Name: "start"},
		},
		{
			name:    "mention of another bot is ignored",
			text:    "/start@OtherBot",
			private: false,
			want:    domain.Command{Kind: domain.CommandNone},
		},
		{
			name:    "mention is case sensitive",
			text:    "/start@gabelnbot",
			private: false,
			want:    domain.Command{Kind: domain.CommandNone},
		},
		{
			name:    "unknown directed command",
			text:    "/frobnicate",
			private: true,
			want:    domain.Command{Kind: domain.CommandUnknown, Name: "frobnicate"},
		},
		{
			name:    "unknown mentioned command in group",
			text:    "/frobnicate@GabelnBot",
			private: false,
			want:    domain.Command{Kind: domain.CommandUnknown, Name: "frobnicate"},
		},
		{
			name:    "plain text",
			text:    "hello there",
			private: true,
			want:    domain.Command{Kind: domain.CommandNone},
		},
		{
			name:    "empty text",
			text:    "",
			private: true,
			want:    domain.Command{Kind: domain.CommandNone},
		},
		{
			name:    "slash alone",
			text:    "/",
			private: true,
			want:    domain.Command{Kind: domain.CommandNone},
		},
		{
			name:    "command with trailing arguments",
			text:    "/start now please",
			private: true,
			want:    domain.Command{Kind: domain.CommandStart, Name: "start"},
		},
		{
			name:    "slash in the middle of text",
			text:    "see https://example.com/start",
			private: true,
			want:    domain.Command{Kind: domain.CommandNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.text, tt.private, "GabelnBot")
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommandIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		got := ParseCommand("/start@GabelnBot", false, "GabelnBot")
		require.Equal(t, domain.Command{Kind: domain.CommandStart, Name: "start"}, got)
	}
}
