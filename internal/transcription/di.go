package transcription

import (
	"github.com/foxseedlab/speakeasy/internal/metrics"
	"github.com/foxseedlab/speakeasy/internal/repository"
	"github.com/foxseedlab/speakeasy/internal/tempaudio"
	"github.com/foxseedlab/speakeasy/internal/transcriber"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Service, error) {
		store := do.MustInvoke[tempaudio.Store](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		repo := do.MustInvoke[repository.Repository](i)
		m := do.MustInvoke[metrics.Recorder](i)
		return NewService(store, stt, repo, m), nil
	})
}
