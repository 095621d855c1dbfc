package audio

import (
	"github.com/foxseedlab/speakeasy/internal/audio"
	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Source, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewCommandSource(c.RecordCommand), nil
	})
	do.Provide(injector, func(i do.Injector) (audio.WAVWriter, error) {
		return NewFileWAVWriter(), nil
	})
}
