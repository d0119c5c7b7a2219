package runtime

import (
	"chat-relay/domain/chat"
	"log/slog"
)

type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeQuit
)

// Dispatcher routes the lines of a registered peer either to the hub or to a command.
type Dispatcher struct {
	hub     *Hub
	phrases chat.Phrases
	log     *slog.Logger
}

func NewDispatcher(hub *Hub, phrases chat.Phrases, log *slog.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, phrases: phrases, log: log}
}

// Dispatch handles one line sent by name through handle.
func (d *Dispatcher) Dispatch(name string, handle chat.Deliverer, line string) Outcome {
	input := chat.ParseLine(line)
	if input.Kind == chat.PlainText {
		report := d.hub.Broadcast(name, input.Text)
		d.log.Debug("Message broadcast",
			"name", name,
			"delivered", len(report.Delivered),
			"evicted", len(report.Evicted))
		return OutcomeContinue
	}
	return d.run(handle, input)
}

// Command handles an explicit command, as carried by a COMMAND: datagram.
// It also serves peers that are not registered.
func (d *Dispatcher) Command(handle chat.Deliverer, command string) Outcome {
	return d.run(handle, chat.ParseCommand(command))
}

func (d *Dispatcher) run(handle chat.Deliverer, input chat.Input) Outcome {
	var err error
	outcome := OutcomeContinue

	switch input.Kind {
	case chat.UsersCommand:
		err = d.hub.Reply(handle, d.phrases.RosterLine(d.hub.Roster()))
	case chat.HelpCommand:
		err = d.hub.Reply(handle, d.phrases.Help(d.hub.Transport())...)
	case chat.QuitCommand:
		if d.hub.Transport() == chat.Stream {
			err = d.hub.Reply(handle, d.phrases.Goodbye)
		}
		outcome = OutcomeQuit
	default:
		err = d.hub.Reply(handle, d.phrases.UnknownCommandLine(d.hub.Transport(), input.Text))
	}

	if err != nil {
		d.log.Debug("Command reply failed", "command", input.Text, "error", err)
	}
	return outcome
}
