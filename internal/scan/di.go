package scan

import (
	"github.com/gangstaai/scanclient/internal/config"
	"github.com/gangstaai/scanclient/internal/discord"
	"github.com/gangstaai/scanclient/internal/repository"
	"github.com/gangstaai/scanclient/internal/transcriber"
	"github.com/gangstaai/scanclient/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*FanoutPublisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := do.Invoke[repository.ScanRepository](i)
		if err != nil {
			return nil, err
		}
		wh := do.MustInvoke[webhook.Sender](i)
		notifier := do.MustInvoke[discord.Notifier](i)
		return NewFanoutPublisher(repo, wh, notifier, cfg.DiscordChannelID), nil
	})
	do.Provide(injector, func(i do.Injector) (*Controller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		opener := do.MustInvoke[transcriber.StreamOpener](i)
		pub, err := do.Invoke[*FanoutPublisher](i)
		if err != nil {
			return nil, err
		}
		return NewController(opener,
			WithIdleTimeout(cfg.StreamIdleTimeout),
			WithPublisher(pub, cfg.FinalizeTimeout),
		), nil
	})
}
