package internal

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

const defaultInspectLimit = 100

type InspectRow struct {
	Timestamp string
	Kind      string
	Name      string
	Transport string
	Addr      string
	ID        string
}

type StatsProvider func() map[string]any

type PageData struct {
	Limit int
	Items []InspectRow
	Stats map[string]any
}

// NewInspector renders the newest presence events as an HTML page.
// The "limit" query parameter bounds the number of rows.
func NewInspector(journal contract.IJournal, statsProvider StatsProvider) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := defaultInspectLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		events, err := journal.List(limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		data := PageData{
			Limit: limit,
			Items: lo.Map(events, func(e chat.PresenceEvent, _ int) InspectRow { return ToInspectRow(e) }),
			Stats: make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})
}

func ToInspectRow(e chat.PresenceEvent) InspectRow {
	id := e.ID.String()
	if len(id) > 8 {
		id = id[:8]
	}
	return InspectRow{
		Timestamp: e.At.Local().Format("2006-01-02 15:04:05"),
		Kind:      string(e.Kind),
		Name:      e.Name,
		Transport: string(e.Transport),
		Addr:      e.Addr,
		ID:        id,
	}
}

// StartDebugServer serves the inspector on every interface in the background.
func StartDebugServer(journal contract.IJournal, port int, endpoint string, statsProvider StatsProvider, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(endpoint, NewInspector(journal, statsProvider))

	server := &http.Server{Addr: fmt.Sprintf("0.0.0.0:%d", port), Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("Debug server stopped", "error", err)
		}
	}()
	return server
}
