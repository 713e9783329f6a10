package backend

import "time"

// MessageRequest is the body for text and voice sends. Subject is a free-form
// topic tag forwarded to the server unchanged.
type MessageRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject"`
}

// MessageResponse is the assistant reply envelope. BotReply may be absent.
type MessageResponse struct {
	BotReply string `json:"botReply"`
}

// HistoryRecord is one archived message returned by the history endpoint,
// already in chronological order.
type HistoryRecord struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// FileKind selects the upload sub-resource and the multipart field name.
type FileKind string

const (
	FileDocument FileKind = "document"
	FileImage    FileKind = "image"
)
