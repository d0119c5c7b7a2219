package main

import (
	"chat-relay/domain/chat"
	"chat-relay/repositories"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

func main() {
	os.Exit(run())
}

func run() int {
	path := flag.String("db", os.Getenv("JOURNAL_PATH"), "Path to the presence journal")
	limit := flag.Int("limit", 50, "Number of events to show, newest first (0 for all)")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "No journal path, use -db or JOURNAL_PATH")
		return 2
	}

	journal, err := repositories.OpenJournal(*path, true, slog.New(slog.DiscardHandler))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while opening the journal: %v\n", err)
		return 1
	}
	defer journal.Close()

	events, err := journal.List(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error while reading the journal: %v\n", err)
		return 1
	}
	render(os.Stdout, events)
	return 0
}

func render(w io.Writer, events []chat.PresenceEvent) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"At", "Kind", "Name", "Transport", "Addr", "ID"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, e := range events {
		table.Append([]string{
			e.At.Format(time.DateTime),
			string(e.Kind),
			e.Name,
			string(e.Transport),
			e.Addr,
			e.ID.String()[:8],
		})
	}
	table.Render()
	fmt.Fprintln(w, strconv.Itoa(len(events))+" event(s)")
}
