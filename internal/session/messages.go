package session

import "fmt"

const (
	messagePressToStart   = "Press Enter to start recording...."
	messageRecording      = "Recording..... Press Enter again to stop"
	messageStopping       = "Stopping..."
	messageMaxDuration    = "Maximum recording duration reached; further audio is dropped until you stop."
	messageTranscriptHead = "Transcription"
)

func printTranscript(text string) string {
	return fmt.Sprintf("\n%s\n%s\n", messageTranscriptHead, text)
}

func printError(err error) string {
	return fmt.Sprintf("Error: %v\n", err)
}
