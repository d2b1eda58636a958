package transcriber

import (
	"net/http"

	"github.com/gangstaai/scanclient/internal/config"
	"github.com/gangstaai/scanclient/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.StreamOpener, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPStreamOpener(c.APIBaseURL, &http.Client{}), nil
	})
}
