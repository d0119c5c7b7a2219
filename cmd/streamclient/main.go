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
	defaultPort = 8888
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
		internal.PrintUsage(os.Stderr, "streamclient", defaultHost, defaultPort)
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

	console.Print(fmt.Sprintf("Connecting to %s...", target.Addr()))
	conn, err := client.DialStream(ctx, target.Addr(), log)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		_ = conn.Close()
		console.Print("Disconnected, goodbye!")
	}()

	welcome, err := conn.Welcome()
	if err != nil {
		return exitRuntime, fmt.Errorf("no welcome from server: %w", err)
	}
	console.Print(welcome)

	// The name and the chat lines share one reader so nothing typed ahead is lost
	stdin := bufio.NewReader(os.Stdin)
	name, err := stdin.ReadString('\n')
	if err != nil && name == "" {
		return exitRuntime, fmt.Errorf("no username entered: %w", err)
	}
	verdict, err := conn.Login(strings.TrimSpace(name))
	if verdict != "" {
		console.Print(verdict)
	}
	if err != nil {
		return exitRuntime, err
	}
	console.Banner("Welcome to the TCP chat room",
		"Type a message and press Enter to send it",
		"Type /help for the command list",
		"Type /quit to leave the chat room")

	// The server closing the connection also ends the session
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := conn.Receive(console.Print); err != nil {
			log.Warn("Receive stopped", "error", err)
		}
		cancel()
	}()

	if err := client.Pump(ctx, stdin, conn.Send); err != nil {
		return exitRuntime, fmt.Errorf("send failed, connection lost: %w", err)
	}
	return exitOK, nil
}
