package tempaudio

import (
	"github.com/foxseedlab/speakeasy/internal/config"
	"github.com/foxseedlab/speakeasy/internal/tempaudio"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (tempaudio.Store, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewFileStore(c.TempDir), nil
	})
}
