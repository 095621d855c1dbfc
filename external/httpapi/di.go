package httpapi

import (
	"net/http"

	metricsimpl "github.com/foxseedlab/speakeasy/external/metrics"
	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*http.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		service := do.MustInvoke[*transcription.Service](i)
		prom := do.MustInvoke[*metricsimpl.PrometheusRecorder](i)
		return &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: NewRouter(service, RouterConfig{
				MaxUploadBytes: cfg.MaxUploadBytes,
				AllowedOrigins: cfg.CORSAllowedOrigins,
				Metrics:        prom.Handler(),
			}),
			ReadHeaderTimeout: readHeaderTimeout,
		}, nil
	})
}
