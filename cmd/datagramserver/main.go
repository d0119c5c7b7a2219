package main

import (
	"chat-relay/domain/chat"
	"chat-relay/infrastructure/datagram"
	"chat-relay/internal"
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

func run() (int, error) {
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	target, err := internal.ParseHostPort(os.Args[1:], config.Host, config.DatagramPort)
	if err != nil {
		internal.PrintUsage(os.Stderr, "datagramserver", config.Host, config.DatagramPort)
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	relay, err := internal.NewRelay(config, chat.Datagram, log)
	if err != nil {
		return exitRuntime, err
	}
	defer relay.Close()

	server := datagram.NewServer(relay.Hub, relay.Dispatcher, relay.Phrases, log, datagram.Options{
		Addr:       target.Addr(),
		BufferSize: config.DatagramSize,
		OnServing:  relay.Notifier(),
	})

	if err := server.Listen(); err != nil {
		return exitRuntime, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting datagram relay", "address", target.Addr(), "locale", config.Locale)
	relay.Run(ctx, server)
	log.Info("Program stopped cleanly")
	return exitOK, nil
}
