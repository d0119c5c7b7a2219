package workers

import (
	"chat-relay/domain/chat"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedHub struct {
	transport chat.Transport
	count     int
}

func (h fixedHub) Count() int                { return h.count }
func (h fixedHub) Transport() chat.Transport { return h.transport }

func TestStatusReporter_Sample(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.DiscardHandler)

	reporter := NewStatusReporter(log, time.Second,
		fixedHub{transport: chat.Stream, count: 3},
		fixedHub{transport: chat.Datagram, count: 1},
	)

	status := reporter.Sample()

	req.Equal(3, status.Sessions[chat.Stream])
	req.Equal(1, status.Sessions[chat.Datagram])
	req.Positive(status.Goroutines)
}

func TestStatusReporter_Run_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.DiscardHandler)
	reporter := NewStatusReporter(log, 10*time.Millisecond, fixedHub{transport: chat.Stream})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.NoError(reporter.Run(ctx))
}

func TestStatusReporter_Disabled_Waits_For_Cancel(t *testing.T) {
	req := require.New(t)
	log := slog.New(slog.DiscardHandler)
	reporter := NewStatusReporter(log, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req.NoError(reporter.Run(ctx))
}
