package internal

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/infrastructure/health"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	debugEndpoint   = "/debug/presence"
	shutdownTimeout = 5 * time.Second
)

// Relay holds everything a server binary shares with the other one:
// the hub of its transport and the ambient workers around it.
type Relay struct {
	Hub        *runtime.Hub
	Dispatcher *runtime.Dispatcher
	Phrases    chat.Phrases

	config    Config
	transport chat.Transport
	journal   contract.IJournal
	health    *health.Service
	closers   []func() error
	log       *slog.Logger
}

// NewRelay builds the hub of one transport from the configuration.
// Close must be called once the relay stopped.
func NewRelay(config Config, transport chat.Transport, log *slog.Logger) (*Relay, error) {
	phrases, err := chat.PhrasesFor(config.Locale)
	if err != nil {
		return nil, err
	}
	r := &Relay{Phrases: phrases, config: config, transport: transport, log: log}

	r.journal = repositories.NopJournal{}
	if config.JournalPath != "" {
		journal, err := repositories.OpenJournal(config.JournalPath, false, log)
		if err != nil {
			return nil, fmt.Errorf("journal opening failed: %w", err)
		}
		r.journal = journal
		r.closers = append(r.closers, journal.Close)
	}

	moderator, err := r.moderator()
	if err != nil {
		r.Close()
		return nil, err
	}

	r.Hub = runtime.NewHub(transport, runtime.NewRegistry(), r.journal, moderator, phrases, log)
	r.Dispatcher = runtime.NewDispatcher(r.Hub, phrases, log)

	if config.HealthPort > 0 {
		r.health = health.NewService(Addr(config.Host, config.HealthPort), log, transport)
	}
	return r, nil
}

// moderator stays nil when no censored directory is configured.
func (r *Relay) moderator() (contract.IModerator, error) {
	if r.config.CensoredDir == "" {
		return nil, nil
	}
	data, err := runtime.NewCensoredLoader(os.DirFS(r.config.CensoredDir)).LoadAll(".")
	if err != nil {
		return nil, fmt.Errorf("censored words loading failed: %w", err)
	}
	char, err := CharacterRune(r.config.CensorCharacter)
	if err != nil {
		return nil, err
	}
	moderator, err := moderation.NewModerator(data.Words, char, r.log)
	if err != nil {
		return nil, err
	}
	r.log.Info("Moderation enabled", "words", len(data.Words), "languages", data.Languages)
	return moderator, nil
}

// Notifier is handed to the server so the health service follows its loop.
func (r *Relay) Notifier() func(serving bool) {
	if r.health == nil {
		return nil
	}
	return r.health.Notifier(r.transport)
}

// Run supervises the server next to the status reporter and the health
// service, and blocks until ctx is done.
func (r *Relay) Run(ctx context.Context, server contract.Worker) {
	supervisor := workers.NewSupervisor(r.log, r.config.RestartInterval)
	supervisor.Add(server, workers.NewStatusReporter(r.log, r.config.StatusInterval, r.Hub))
	if r.health != nil {
		supervisor.Add(r.health)
	}

	if r.config.DebugPort > 0 {
		debug := StartDebugServer(r.journal, r.config.DebugPort, debugEndpoint, r.stats, r.log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = debug.Shutdown(shutdownCtx)
		}()
		r.log.Info("Presence inspector available", "port", r.config.DebugPort, "endpoint", debugEndpoint)
	}

	supervisor.Run(ctx)
}

func (r *Relay) stats() map[string]any {
	return map[string]any{
		"transport": string(r.transport),
		"sessions":  r.Hub.Count(),
		"online":    r.Hub.Roster(),
	}
}

// Close releases the journal.
func (r *Relay) Close() {
	for _, closer := range r.closers {
		if err := closer(); err != nil {
			r.log.Warn("Close failed", "error", err)
		}
	}
}
