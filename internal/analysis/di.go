package analysis

import (
	"github.com/gangstaai/scanclient/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Scanner, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[Client](i)
		return NewScanner(client, cfg.PollInterval, cfg.PollMaxAttempts), nil
	})
}
