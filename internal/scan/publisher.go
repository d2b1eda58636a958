package scan

import (
	"context"
	"log/slog"

	"github.com/gangstaai/scanclient/internal/discord"
	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/gangstaai/scanclient/internal/webhook"
	"golang.org/x/sync/errgroup"
)

// FanoutPublisher stores and announces finished scans. Every sink is
// optional and a failing sink never affects the others.
type FanoutPublisher struct {
	repo             repository.ScanRepository
	webhook          webhook.Sender
	notifier         discord.Notifier
	discordChannelID string
}

func NewFanoutPublisher(repo repository.ScanRepository, wh webhook.Sender, notifier discord.Notifier, discordChannelID string) *FanoutPublisher {
	return &FanoutPublisher{
		repo:             repo,
		webhook:          wh,
		notifier:         notifier,
		discordChannelID: discordChannelID,
	}
}

func (p *FanoutPublisher) Publish(ctx context.Context, st State) {
	var g errgroup.Group
	if p.repo != nil {
		g.Go(func() error {
			if err := p.repo.SaveScan(ctx, buildSaveScanInput(st)); err != nil {
				slog.Error("failed to save scan", "error", err, "session_id", st.SessionID)
				return err
			}
			return nil
		})
	}
	if p.webhook != nil {
		g.Go(func() error {
			if err := p.webhook.SendScanResult(ctx, buildScanWebhookPayload(st)); err != nil {
				slog.Error("failed to send scan webhook", "error", err, "session_id", st.SessionID)
				return err
			}
			return nil
		})
	}
	if p.notifier != nil && p.discordChannelID != "" {
		g.Go(func() error {
			if err := p.notifier.SendChannelMessage(p.discordChannelID, buildDiscordSummary(st)); err != nil {
				slog.Error("failed to post scan to discord", "error", err, "session_id", st.SessionID, "channel_id", p.discordChannelID)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("scan published with errors", "session_id", st.SessionID)
		return
	}
	slog.Debug("scan published", "session_id", st.SessionID)
}
