package main

import (
	"chat-relay/domain/chat"
	"chat-relay/infrastructure/stream"
	"chat-relay/internal"
	"chat-relay/runtime"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the stream relay and blocks until SIGINT or SIGTERM.
// Every defer runs before main exits.
func run() (int, error) {
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	target, err := internal.ParseHostPort(os.Args[1:], config.Host, config.StreamPort)
	if err != nil {
		internal.PrintUsage(os.Stderr, "streamserver", config.Host, config.StreamPort)
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	relay, err := internal.NewRelay(config, chat.Stream, log)
	if err != nil {
		return exitRuntime, err
	}
	defer relay.Close()

	server := stream.NewServer(
		relay.Hub, relay.Dispatcher, runtime.NewPool(config.MaxConnections), relay.Phrases, log,
		stream.Options{
			Addr:            target.Addr(),
			DeliveryTimeout: config.DeliveryTimeout,
			OnServing:       relay.Notifier(),
		},
	)

	if err := server.Listen(); err != nil {
		return exitRuntime, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting stream relay", "address", target.Addr(), "locale", config.Locale)
	relay.Run(ctx, server)
	log.Info("Program stopped cleanly")
	return exitOK, nil
}
