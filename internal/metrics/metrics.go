package metrics

import "time"

type Recorder interface {
	ObserveTranscription(outcome string, elapsed time.Duration)
}

type noopRecorder struct{}

func NewNoopRecorder() Recorder {
	return noopRecorder{}
}

func (noopRecorder) ObserveTranscription(string, time.Duration) {}
