package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the wall-clock granularity shown in front of every broadcast line.
const TimeLayout = "15:04:05"

// Message lives for the duration of one fan-out and is never stored.
type Message struct {
	ID     uuid.UUID
	Sender string
	Body   string
	At     time.Time
}

func NewMessage(sender, body string, at time.Time) Message {
	return Message{
		ID:     uuid.New(),
		Sender: sender,
		Body:   body,
		At:     at,
	}
}

// Format renders the message as "[HH:MM:SS] sender: body" in server local time.
func (m Message) Format() string {
	return fmt.Sprintf("[%s] %s: %s", m.At.Local().Format(TimeLayout), m.Sender, m.Body)
}
