package audio

import (
	"context"
	"io"
)

const bytesPerSample = 2

// Format describes signed 16-bit little-endian interleaved PCM.
type Format struct {
	SampleRate int
	Channels   int
}

func (f Format) FrameBytes() int {
	return f.Channels * bytesPerSample
}

func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.FrameBytes()
}

// Source produces live PCM in the requested format. The stream ends once ctx
// is cancelled; Close must be called after the last Read returns.
type Source interface {
	Open(ctx context.Context, format Format) (io.ReadCloser, error)
}

type WAVWriter interface {
	WriteWAV(path string, format Format, pcm []byte) error
}
