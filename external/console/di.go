package console

import (
	"os"

	"github.com/foxseedlab/speakeasy/internal/session"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (session.Trigger, error) {
		return NewLineTrigger(os.Stdin), nil
	})
}
