package chatclient

import (
	"io"

	"EduChat/internal/backend"
)

// Input is the tagged variant covering the three outbound modalities. All of
// them flow through the same Send contract.
type Input interface {
	inputKind() string
}

// TextInput is a typed message.
type TextInput struct {
	Text string
}

// FileInput is an uploaded file payload. Data is read exactly once during
// the send.
type FileInput struct {
	Name string
	Kind backend.FileKind
	Data io.Reader
}

// VoiceInput carries speech already transcribed to final text; the
// recognizer itself is outside the client.
type VoiceInput struct {
	Transcript string
}

func (TextInput) inputKind() string  { return "text" }
func (FileInput) inputKind() string  { return "file" }
func (VoiceInput) inputKind() string { return "voice" }
