package chat

import (
	"chat-relay/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhrasesFor(t *testing.T) {
	req := require.New(t)

	zh, err := PhrasesFor("zh")
	req.NoError(err)
	req.Equal("系统消息", zh.SystemSender)

	en, err := PhrasesFor("EN")
	req.NoError(err)
	req.Equal("system", en.SystemSender)

	_, err = PhrasesFor("fr")
	req.ErrorIs(err, errors.ErrUnknownLocale)
}

func TestPhrases_Lines(t *testing.T) {
	req := require.New(t)
	en, err := PhrasesFor("en")
	req.NoError(err)

	req.Equal("system: online users (2): alice bob", en.RosterLine([]string{"alice", "bob"}))
	req.Equal("SUCCESS:Login succeeded! Welcome alice", en.LoginAck(Stream, "alice"))
	req.Equal("SUCCESS:Registration succeeded! Welcome alice", en.LoginAck(Datagram, "alice"))
	req.Equal("ERROR:username already taken", en.NameTakenLine(Datagram))
	req.Equal("ERROR:username already taken, reconnect with another username", en.NameTakenLine(Stream))
	req.Contains(en.Help(Stream), "/quit or /exit - leave the chat room")
	req.Contains(en.Help(Datagram), "/quit - leave the chat room")
	req.Equal("unknown command: /foo, type /help for help", en.UnknownCommandLine(Stream, "/foo"))
	req.Equal("unknown command: /foo", en.UnknownCommandLine(Datagram, "/foo"))
}

func TestPhrases_Unknown_Command_Keeps_Source_Wording(t *testing.T) {
	req := require.New(t)
	zh, err := PhrasesFor("zh")
	req.NoError(err)

	req.Equal("未知命令: /foo，输入 /help 查看帮助", zh.UnknownCommandLine(Stream, "/foo"))
	req.Equal("未知命令: /foo", zh.UnknownCommandLine(Datagram, "/foo"))
}
