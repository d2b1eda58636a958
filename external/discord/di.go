package discord

import (
	"github.com/gangstaai/scanclient/internal/config"
	discordpkg "github.com/gangstaai/scanclient/internal/discord"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (discordpkg.Notifier, error) {
		c := do.MustInvoke[*config.Config](i)
		if !c.DiscordEnabled() {
			return NopNotifier{}, nil
		}
		return NewClient(c.DiscordToken), nil
	})
}
