package backend

import (
	"github.com/gangstaai/scanclient/internal/analysis"
	"github.com/gangstaai/scanclient/internal/config"
	"github.com/gangstaai/scanclient/internal/history"
	"github.com/gangstaai/scanclient/internal/song"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.APIBaseURL, c.SongPath, c.RequestTimeout), nil
	})
	do.Provide(injector, func(i do.Injector) (analysis.Client, error) {
		return do.MustInvoke[*Client](i), nil
	})
	do.Provide(injector, func(i do.Injector) (song.Generator, error) {
		return do.MustInvoke[*Client](i), nil
	})
	do.Provide(injector, func(i do.Injector) (history.Source, error) {
		return do.MustInvoke[*Client](i), nil
	})
}
