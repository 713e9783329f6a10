package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"EduChat/internal/backend"
	"EduChat/internal/session"
	"EduChat/internal/store"
	"EduChat/internal/timeline"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Fixed reply texts. The error texts are what the timeline shows when a
// delivery fails; the default texts stand in for an absent botReply field.
const (
	defaultReplyText = "No response from EduBot."
	defaultFileReply = "No AI response."
	sendErrorText    = "Failed to get AI response."
	fileErrorText    = "Failed to process file."
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNoEndpoint      = errors.New("no active endpoint")
)

// Client dispatches outbound messages and seeds history for one session. It
// reads the credential and active endpoint from the session context but never
// mutates them; the timeline is the only state it writes.
type Client struct {
	sess       *session.Context
	tl         *timeline.Timeline
	archive    *store.Store // optional
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
}

func New(sess *session.Context, tl *timeline.Timeline, archive *store.Store, logger *slog.Logger, tracer trace.Tracer, meter metric.Meter) *Client {
	return &Client{
		sess:       sess,
		tl:         tl,
		archive:    archive,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
		tracer:     tracer,
		meter:      meter,
	}
}

// Send dispatches one outbound input against the active endpoint. The user
// entry is appended as pending before any network I/O, so the optimistic
// update is visible to the caller while the exchange is still in flight.
//
// The only errors Send returns are the two precondition failures, raised
// before any request is issued. A failed delivery is absorbed: the user entry
// is marked failed, a fixed assistant error entry is appended, and Send
// returns nil. Concurrent sends are independent; each reconciles through its
// own entry id, so out-of-order completion is fine.
func (c *Client) Send(ctx context.Context, input Input, subject string) error {
	if !c.sess.Credential().Valid() {
		return ErrUnauthenticated
	}
	active := c.sess.Endpoint()
	if active.BaseURL == "" {
		return ErrNoEndpoint
	}

	entryID := c.tl.Append(displayText(input), timeline.SenderUser, time.Now(), timeline.StatusPending)

	reply, err := c.exchange(ctx, active.BaseURL, input, subject)
	if err != nil {
		c.logger.Error("send failed", "kind", input.inputKind(), "entry_id", entryID, "error", err)
		c.tl.UpdateStatus(entryID, timeline.StatusFailed)
		c.tl.Append(errorText(input), timeline.SenderAssistant, time.Now(), timeline.StatusDelivered)
		c.archiveAsync()
		return nil
	}

	c.tl.UpdateStatus(entryID, timeline.StatusDelivered)
	c.tl.Append(reply, timeline.SenderAssistant, time.Now(), timeline.StatusDelivered)
	c.countSend(ctx, input.inputKind())
	c.archiveAsync()
	return nil
}

// LoadHistory seeds the timeline from the server log, once per session start.
// Without a credential it is a silent no-op; on fetch failure it logs and
// leaves the timeline empty rather than failing the session.
func (c *Client) LoadHistory(ctx context.Context) {
	cred := c.sess.Credential()
	if !cred.Valid() {
		return
	}
	active := c.sess.Endpoint()
	if active.BaseURL == "" {
		c.logger.Warn("history skipped, no active endpoint")
		return
	}

	ctx, span := c.tracer.Start(ctx, "history_fetch")
	defer span.End()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, active.BaseURL+"/history", nil)
	if err != nil {
		c.logger.Error("failed to create history request", "error", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to load history", "error", err)
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("failed to read history response", "error", err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("history fetch rejected", "status", resp.Status, "body", string(body))
		return
	}

	var records []backend.HistoryRecord
	if err := json.Unmarshal(body, &records); err != nil {
		c.logger.Error("failed to unmarshal history", "error", err)
		return
	}

	c.recordDuration(ctx, time.Since(start))

	// Seed in the order received; the server log is already chronological.
	for _, rec := range records {
		c.tl.Append(rec.Message, historySender(rec.Sender), rec.Timestamp, timeline.StatusDelivered)
	}
	c.logger.Info("history loaded", "count", len(records))
}

// exchange performs the single network round trip for a send and returns the
// reply text to show for the assistant entry.
func (c *Client) exchange(ctx context.Context, baseURL string, input Input, subject string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "message_send")
	defer span.End()

	start := time.Now()

	var req *http.Request
	var err error
	switch in := input.(type) {
	case TextInput:
		req, err = c.newMessageRequest(ctx, baseURL, in.Text, subject)
	case VoiceInput:
		// Voice is pre-transcribed, so it rides the general chat endpoint.
		req, err = c.newMessageRequest(ctx, baseURL, in.Transcript, subject)
	case FileInput:
		req, err = c.newUploadRequest(ctx, baseURL, in, subject)
	default:
		err = fmt.Errorf("unknown input kind %q", input.inputKind())
	}
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	var apiResp backend.MessageResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.recordDuration(ctx, time.Since(start))

	if strings.TrimSpace(apiResp.BotReply) == "" {
		return defaultReply(input), nil
	}
	return apiResp.BotReply, nil
}

func (c *Client) newMessageRequest(ctx context.Context, baseURL, text, subject string) (*http.Request, error) {
	jsonData, err := json.Marshal(backend.MessageRequest{Text: text, Subject: subject})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/message", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.sess.Credential().Token)
	req.Header.Set("content-type", "application/json")
	return req, nil
}

func (c *Client) newUploadRequest(ctx context.Context, baseURL string, in FileInput, subject string) (*http.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(string(in.Kind), in.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, in.Data); err != nil {
		return nil, fmt.Errorf("failed to read file payload: %w", err)
	}
	if err := mw.WriteField("subject", subject); err != nil {
		return nil, fmt.Errorf("failed to write subject field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/message/%s", baseURL, in.Kind), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.sess.Credential().Token)
	req.Header.Set("content-type", mw.FormDataContentType())
	return req, nil
}

func (c *Client) recordDuration(ctx context.Context, d time.Duration) {
	histogram, err := c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if err == nil {
		histogram.Record(ctx, float64(d.Milliseconds()))
	}
}

func (c *Client) countSend(ctx context.Context, kind string) {
	counter, err := c.meter.Int64Counter(
		fmt.Sprintf("chat.messages.sent.%s", kind),
		metric.WithDescription(fmt.Sprintf("Messages delivered with the %s modality", kind)),
	)
	if err != nil {
		c.logger.Warn("failed to create counter", "kind", kind, "error", err)
		return
	}
	counter.Add(ctx, 1)
}

func (c *Client) archiveAsync() {
	if c.archive == nil {
		return
	}
	go func() {
		err := c.archive.Save(c.sess.ID(), c.sess.StartTime(), c.sess.Endpoint().Label, c.tl.Snapshot())
		if err != nil {
			c.logger.Error("failed to archive session", "error", err)
		}
	}()
}

func displayText(input Input) string {
	switch in := input.(type) {
	case TextInput:
		return in.Text
	case FileInput:
		return "File: " + in.Name
	case VoiceInput:
		return in.Transcript
	}
	return ""
}

func errorText(input Input) string {
	if _, ok := input.(FileInput); ok {
		return fileErrorText
	}
	return sendErrorText
}

func defaultReply(input Input) string {
	if _, ok := input.(FileInput); ok {
		return defaultFileReply
	}
	return defaultReplyText
}

func historySender(s string) timeline.Sender {
	switch s {
	case "bot", "assistant":
		return timeline.SenderAssistant
	default:
		return timeline.SenderUser
	}
}
