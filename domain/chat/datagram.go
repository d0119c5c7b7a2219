package chat

import "strings"

type Tag string

// Datagram tags are literal prefixes with no length field and no escaping.
const (
	TagRegister   Tag = "REGISTER:"
	TagUnregister Tag = "UNREGISTER:"
	TagMessage    Tag = "MESSAGE:"
	TagCommand    Tag = "COMMAND:"
	TagNone       Tag = ""
)

// MaxDatagramSize is the receive buffer of both datagram ends.
const MaxDatagramSize = 1024

var tags = []Tag{TagRegister, TagUnregister, TagMessage, TagCommand}

type Frame struct {
	Tag  Tag
	Body string
}

// ParseDatagram splits the tag from the payload.
// A payload that starts with none of the tags yields TagNone.
func ParseDatagram(payload string) Frame {
	for _, tag := range tags {
		if body, ok := strings.CutPrefix(payload, string(tag)); ok {
			return Frame{Tag: tag, Body: body}
		}
	}
	return Frame{Tag: TagNone, Body: payload}
}

func (f Frame) String() string {
	return string(f.Tag) + f.Body
}

// EncodeInput tags a console line the way the datagram client sends it.
func EncodeInput(line string) Frame {
	if strings.HasPrefix(line, CommandPrefix) {
		return Frame{Tag: TagCommand, Body: line}
	}
	return Frame{Tag: TagMessage, Body: line}
}
