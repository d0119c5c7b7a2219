package main

import (
	"bufio"
	"chat-relay/client"
	"chat-relay/internal"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const (
	defaultHost = "localhost"
	defaultPort = 8889
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	target, err := internal.ParseHostPort(os.Args[1:], defaultHost, defaultPort)
	if err != nil {
		internal.PrintUsage(os.Stderr, "datagramclient", defaultHost, defaultPort)
		return exitConfig, err
	}
	config, err := client.LoadConsoleConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	console := client.NewConsole(os.Stdout, config.Colours)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console.Print(fmt.Sprintf("Reaching UDP server %s...", target.Addr()))
	conn, err := client.DialDatagram(ctx, target.Addr(), log)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		_ = conn.Close()
		console.Print("Disconnected, goodbye!")
	}()

	// Verdicts arrive asynchronously like any other datagram
	go func() {
		if err := conn.Receive(console.Print); err != nil {
			log.Warn("Receive stopped", "error", err)
		}
	}()

	stdin := bufio.NewReader(os.Stdin)
	console.Print("Please enter your username:")
	name, err := stdin.ReadString('\n')
	if err != nil && name == "" {
		return exitRuntime, fmt.Errorf("no username entered: %w", err)
	}
	if err := conn.Register(strings.TrimSpace(name)); err != nil {
		return exitRuntime, fmt.Errorf("registration failed: %w", err)
	}
	console.Banner("Welcome to the UDP chat room",
		"Type a message and press Enter to send it",
		"Type /help for the command list",
		"Type /quit to leave the chat room")

	if err := client.Pump(ctx, stdin, conn.Send); err != nil {
		return exitRuntime, fmt.Errorf("send failed: %w", err)
	}
	return exitOK, nil
}
