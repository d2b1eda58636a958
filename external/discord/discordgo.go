package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

var ErrNotConnected = errors.New("discord session is not initialized")

// Client posts scan summaries over the Discord REST API. No gateway
// connection is opened; a CLI run only ever sends messages.
type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
}

func NewClient(token string) *Client {
	return &Client{
		token: token,
	}
}

// Connect creates the REST session and resolves the bot user, bounded by ctx.
func (c *Client) Connect(ctx context.Context) error {
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	userID, err := c.GetBotUserID(ctx)
	if err != nil {
		c.session = nil
		return fmt.Errorf("failed to resolve discord bot user: %w", err)
	}
	slog.Debug("discord notifier ready", "bot_user_id", userID)
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	if c.session == nil {
		return ErrNotConnected
	}
	_, err := c.session.ChannelMessageSend(channelID, content)
	if isRESTNotFound(err) {
		return fmt.Errorf("discord channel %s not found: %w", channelID, err)
	}
	return err
}

// ChannelName resolves a channel name for log output, falling back to the id.
func (c *Client) ChannelName(channelID string) string {
	if ch := c.resolveChannel(channelID); ch != nil {
		return ch.Name
	}
	return channelID
}

func (c *Client) GetBotUserID(ctx context.Context) (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", ErrNotConnected
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) resolveChannel(channelID string) *discordgo.Channel {
	if c.session == nil {
		return nil
	}
	if c.session.State != nil {
		channel, err := c.session.State.Channel(channelID)
		if err == nil && channel != nil && channel.Name != "" {
			return channel
		}
	}
	channel, err := c.session.Channel(channelID)
	if err != nil || channel == nil {
		return nil
	}
	if channel.Name == "" {
		return nil
	}
	return channel
}

func isRESTNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}

// NopNotifier is used when no Discord credentials are configured.
type NopNotifier struct{}

func (NopNotifier) Connect(context.Context) error        { return nil }
func (NopNotifier) Close() error                         { return nil }
func (NopNotifier) SendChannelMessage(_, _ string) error { return nil }
