package discord

import "context"

// MaxMessageLength is the Discord limit for a single message body.
const MaxMessageLength = 2000

type Notifier interface {
	Connect(ctx context.Context) error
	Close() error
	SendChannelMessage(channelID, content string) error
}
