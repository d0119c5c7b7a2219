package workers

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*StatusReporter)(nil)

// Occupancy is what the reporter needs to know about a hub.
type Occupancy interface {
	Count() int
	Transport() chat.Transport
}

// Status is one sample of the process and its hubs.
type Status struct {
	Sessions   map[chat.Transport]int
	RSS        uint64
	CPU        float64
	Goroutines int
}

// StatusReporter logs session counts and process usage at a fixed interval.
type StatusReporter struct {
	log      *slog.Logger
	interval time.Duration
	hubs     []Occupancy
	proc     *process.Process
}

func NewStatusReporter(log *slog.Logger, interval time.Duration, hubs ...Occupancy) *StatusReporter {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Debug("Process metrics unavailable", "error", err)
	}
	return &StatusReporter{log: log, interval: interval, hubs: hubs, proc: proc}
}

func (w *StatusReporter) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.log.Debug("Status reporting disabled")
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping status reporter")
			return nil
		case <-ticker.C:
			status := w.Sample()
			attrs := []any{"rss", status.RSS, "cpu", status.CPU, "goroutines", status.Goroutines}
			for transport, count := range status.Sessions {
				attrs = append(attrs, string(transport), count)
			}
			w.log.Info("Status", attrs...)
		}
	}
}

// Sample reads the current counts. Process figures stay zero when unavailable.
func (w *StatusReporter) Sample() Status {
	status := Status{
		Sessions:   make(map[chat.Transport]int, len(w.hubs)),
		Goroutines: goruntime.NumGoroutine(),
	}
	for _, hub := range w.hubs {
		status.Sessions[hub.Transport()] += hub.Count()
	}
	if w.proc == nil {
		return status
	}
	if mem, err := w.proc.MemoryInfo(); err == nil {
		status.RSS = mem.RSS
	} else {
		w.log.Debug("Error while finding process ram usage", "error", err)
	}
	if cpu, err := w.proc.CPUPercent(); err == nil {
		status.CPU = cpu
	} else {
		w.log.Debug("Error while finding process cpu usage", "error", err)
	}
	return status
}
