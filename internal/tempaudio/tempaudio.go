package tempaudio

import (
	"os"
	"time"
)

// Store keeps an audio payload on disk only for the duration of fn. The file
// passed to fn is open read-only and already contains every byte of data;
// it is removed before WithFile returns, whatever fn does.
type Store interface {
	WithFile(data []byte, ext string, fn func(f *os.File) error) error
	Sweep(olderThan time.Duration) (int, error)
}
