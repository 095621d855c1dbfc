package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/foxseedlab/speakeasy/internal/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

type FileWAVWriter struct{}

func NewFileWAVWriter() audio.WAVWriter {
	return FileWAVWriter{}
}

// WriteWAV creates or overwrites path with a RIFF/WAVE file holding pcm.
func (FileWAVWriter) WriteWAV(path string, format audio.Format, pcm []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	if err := encodeWAV(f, format, pcm); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close wav file: %w", err)
	}
	return nil
}

func encodeWAV(w io.WriteSeeker, format audio.Format, pcm []byte) error {
	if len(pcm)%format.FrameBytes() != 0 {
		return fmt.Errorf("pcm payload not aligned to %d-byte frames", format.FrameBytes())
	}
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buffer := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:           samples,
		SourceBitDepth: wavBitDepth,
	}

	enc := wav.NewEncoder(w, format.SampleRate, wavBitDepth, format.Channels, wavFormatPCM)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
