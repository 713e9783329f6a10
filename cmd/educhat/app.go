package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"EduChat/internal/backend"
	"EduChat/internal/chatclient"
	"EduChat/internal/config"
	"EduChat/internal/endpoint"
	"EduChat/internal/session"
	"EduChat/internal/store"
	"EduChat/internal/telemetry"
	"EduChat/internal/timeline"
)

// App wires the session together: credential from the identity provider
// boundary (environment), endpoint resolution, history seeding, and the REPL.
type App struct {
	cfg       config.Config
	logger    *slog.Logger
	cleanup   func()
	sess      *session.Context
	tl        *timeline.Timeline
	client    *chatclient.Client
	archive   *store.Store
	subject   string
	lastShown int64
}

func newApp(cfg config.Config) (*App, error) {
	logger, err := telemetry.InitLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	// The identity provider is an external collaborator; its output arrives
	// through the environment.
	cred := session.Credential{
		Token:       os.Getenv("EDUCHAT_TOKEN"),
		UserID:      os.Getenv("EDUCHAT_USER_ID"),
		DisplayName: os.Getenv("EDUCHAT_USER_NAME"),
	}

	resolver := endpoint.NewResolver(&http.Client{}, logger, cfg.ProbeTimeout)
	active := resolver.Resolve(ctx, cfg.Candidates)

	sess := session.NewContext(cred, active)
	tl := timeline.New()

	var archive *store.Store
	if cfg.ArchivePath != "" {
		archive, err = store.Open(cfg.ArchivePath)
		if err != nil {
			logger.Warn("failed to open archive, continuing without it", "error", err)
			archive = nil
		}
	}

	return &App{
		cfg:     cfg,
		logger:  logger,
		cleanup: cleanup,
		sess:    sess,
		tl:      tl,
		client:  chatclient.New(sess, tl, archive, logger, tracer, meter),
		archive: archive,
		subject: cfg.Subject,
	}, nil
}

// Run starts the chat loop.
func (a *App) Run() error {
	defer a.teardown()

	fmt.Println("=== EduChat ===")
	if cred := a.sess.Credential(); cred.Valid() {
		name := cred.DisplayName
		if name == "" {
			name = cred.UserID
		}
		fmt.Printf("Signed in as %s\n", name)
	} else {
		fmt.Println("Not signed in; set EDUCHAT_TOKEN to send messages")
	}

	active := a.sess.Endpoint()
	fmt.Printf("Endpoint: %s (%s)\n", active.BaseURL, active.Label)
	if active.Degraded {
		fmt.Println("Warning: no backend reachable, continuing with an unverified endpoint")
	}
	fmt.Printf("Subject: %s\n", a.subject)
	fmt.Println("Type /help for commands, /quit to exit")
	fmt.Println()

	ctx := context.Background()
	a.client.LoadHistory(ctx)
	a.flush()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := a.handleCommand(ctx, input)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				a.logger.Error("command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		a.send(ctx, chatclient.TextInput{Text: input})
	}

	fmt.Println("Goodbye!")
	return nil
}

// send dispatches one input and prints what the exchange added to the
// timeline. Precondition failures are the only errors Send surfaces.
func (a *App) send(ctx context.Context, input chatclient.Input) {
	err := a.client.Send(ctx, input, a.subject)
	switch {
	case errors.Is(err, chatclient.ErrUnauthenticated):
		fmt.Println("You're not logged in.")
	case errors.Is(err, chatclient.ErrNoEndpoint):
		fmt.Println("No backend endpoint is configured.")
	default:
		a.flush()
	}
}

// flush prints timeline entries not shown yet, in insertion order.
func (a *App) flush() {
	for _, e := range a.tl.Snapshot() {
		if e.ID <= a.lastShown {
			continue
		}
		a.lastShown = e.ID
		switch e.Sender {
		case timeline.SenderUser:
			marker := ""
			if e.Status == timeline.StatusFailed {
				marker = " (failed)"
			}
			fmt.Printf("You [%s]: %s%s\n", e.Timestamp.Format("15:04"), e.Text, marker)
		default:
			fmt.Printf("Bot [%s]: %s\n", e.Timestamp.Format("15:04"), e.Text)
		}
	}
}

func (a *App) handleCommand(ctx context.Context, cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/quit", "/exit":
		return true, nil

	case "/subject":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /subject <%s>", strings.Join(config.Subjects, "|"))
		}
		if !config.ValidSubject(parts[1]) {
			return false, fmt.Errorf("unknown subject: %s", parts[1])
		}
		a.subject = parts[1]
		fmt.Printf("Subject set to %s\n", a.subject)
		return false, nil

	case "/file":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /file <path>")
		}
		path := strings.TrimSpace(strings.TrimPrefix(cmd, "/file"))
		kind, err := fileKind(path)
		if err != nil {
			return false, err
		}
		f, err := os.Open(path)
		if err != nil {
			return false, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		a.send(ctx, chatclient.FileInput{Name: filepath.Base(path), Kind: kind, Data: f})
		return false, nil

	case "/voice":
		// The speech engine is a black box that yields final text; here the
		// transcript arrives on the command line.
		transcript := strings.TrimSpace(strings.TrimPrefix(cmd, "/voice"))
		if transcript == "" {
			return false, fmt.Errorf("usage: /voice <transcript>")
		}
		a.send(ctx, chatclient.VoiceInput{Transcript: transcript})
		return false, nil

	case "/history":
		for _, e := range a.tl.Snapshot() {
			fmt.Printf("%-9s [%s] %s (%s)\n", e.Sender, e.Timestamp.Format("Jan 2 15:04"), e.Text, e.Status)
		}
		return false, nil

	case "/whoami":
		cred := a.sess.Credential()
		if !cred.Valid() {
			fmt.Println("Not signed in.")
			return false, nil
		}
		fmt.Printf("%s (%s)\n", cred.DisplayName, cred.UserID)
		return false, nil

	case "/help":
		fmt.Println("Available commands:")
		fmt.Println("  /quit, /exit         - Exit")
		fmt.Println("  /subject <name>      - Set the subject tag sent with each message")
		fmt.Println("  /file <path>         - Upload a PDF or image file")
		fmt.Println("  /voice <transcript>  - Send transcribed speech")
		fmt.Println("  /history             - Print the session timeline")
		fmt.Println("  /whoami              - Show the signed-in user")
		fmt.Println("  /help                - Show this help message")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s", parts[0])
	}
}

// fileKind maps a file extension to the upload sub-resource. Only documents
// and images are accepted, matching the backend surface.
func fileKind(path string) (backend.FileKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return backend.FileDocument, nil
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return backend.FileImage, nil
	}
	return "", fmt.Errorf("only image or PDF files are allowed")
}

func (a *App) teardown() {
	if a.archive != nil {
		err := a.archive.Save(a.sess.ID(), a.sess.StartTime(), a.sess.Endpoint().Label, a.tl.Snapshot())
		if err != nil {
			a.logger.Error("failed to archive session on exit", "error", err)
		}
		if err := a.archive.Close(); err != nil {
			a.logger.Error("failed to close archive", "error", err)
		}
	}
	a.sess.Teardown()
	a.cleanup()
}
