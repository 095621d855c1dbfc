package session

import (
	"os"

	"github.com/foxseedlab/speakeasy/internal/audio"
	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/foxseedlab/speakeasy/internal/transcription"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Recorder, error) {
		cfg := do.MustInvoke[*config.Config](i)
		source := do.MustInvoke[audio.Source](i)
		trigger := do.MustInvoke[Trigger](i)
		wav := do.MustInvoke[audio.WAVWriter](i)
		service := do.MustInvoke[*transcription.Service](i)
		return NewRecorder(RecorderConfig{
			Format: audio.Format{
				SampleRate: cfg.RecordSampleRate,
				Channels:   cfg.RecordChannels,
			},
			MaxBytes:   cfg.RecordMaxBytes(),
			OutputPath: cfg.RecordOutputPath,
		}, source, trigger, wav, service, os.Stdout), nil
	})
}
