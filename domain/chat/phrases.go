package chat

import (
	"chat-relay/errors"
	"fmt"
	"strings"
)

const (
	SuccessPrefix = "SUCCESS:"
	ErrorPrefix   = "ERROR:"
)

func Success(text string) string { return SuccessPrefix + text }

func Failure(text string) string { return ErrorPrefix + text }

// Phrases holds every human readable line the servers emit.
type Phrases struct {
	SystemSender           string
	Welcome                string
	LoginSucceeded         string
	RegisterSucceeded      string
	NameTaken              string
	NameTakenRetry         string
	NameEmpty              string
	AlreadyRegistered      string
	ServerFull             string
	Joined                 string
	Left                   string
	Roster                 string
	Goodbye                string
	UnknownCommand         string
	DatagramUnknownCommand string
	StreamHelp             []string
	DatagramHelp           []string
}

var chinese = Phrases{
	SystemSender:           "系统消息",
	Welcome:                "欢迎来到TCP聊天室！请输入您的用户名:",
	LoginSucceeded:         "登录成功！欢迎 %s",
	RegisterSucceeded:      "注册成功！欢迎 %s",
	NameTaken:              "用户名已存在",
	NameTakenRetry:         "用户名已存在，请重新连接并使用其他用户名",
	NameEmpty:              "用户名不能为空",
	AlreadyRegistered:      "该地址已注册",
	ServerFull:             "服务器已满，请稍后再试",
	Joined:                 "%s 加入了聊天室",
	Left:                   "%s 离开了聊天室",
	Roster:                 "当前在线用户 (%d人): %s",
	Goodbye:                "再见！",
	UnknownCommand:         "未知命令: %s，输入 /help 查看帮助",
	DatagramUnknownCommand: "未知命令: %s",
	StreamHelp: []string{
		"=== 聊天室命令帮助 ===",
		"/users - 查看在线用户列表",
		"/help - 显示此帮助信息",
		"/quit 或 /exit - 退出聊天室",
		"直接输入文字即可发送聊天消息",
	},
	DatagramHelp: []string{
		"=== UDP聊天室命令帮助 ===",
		"/users - 查看在线用户列表",
		"/help - 显示此帮助信息",
		"/quit - 退出聊天室",
		"直接输入文字即可发送聊天消息",
	},
}

var english = Phrases{
	SystemSender:           "system",
	Welcome:                "Welcome to the TCP chat room! Please enter your username:",
	LoginSucceeded:         "Login succeeded! Welcome %s",
	RegisterSucceeded:      "Registration succeeded! Welcome %s",
	NameTaken:              "username already taken",
	NameTakenRetry:         "username already taken, reconnect with another username",
	NameEmpty:              "username cannot be empty",
	AlreadyRegistered:      "this address is already registered",
	ServerFull:             "server is full, try again later",
	Joined:                 "%s joined the chat room",
	Left:                   "%s left the chat room",
	Roster:                 "online users (%d): %s",
	Goodbye:                "Goodbye!",
	UnknownCommand:         "unknown command: %s, type /help for help",
	DatagramUnknownCommand: "unknown command: %s",
	StreamHelp: []string{
		"=== Chat room commands ===",
		"/users - list online users",
		"/help - show this help",
		"/quit or /exit - leave the chat room",
		"Type any text to send a chat message",
	},
	DatagramHelp: []string{
		"=== UDP chat room commands ===",
		"/users - list online users",
		"/help - show this help",
		"/quit - leave the chat room",
		"Type any text to send a chat message",
	},
}

// PhrasesFor returns the phrase table of a locale ("zh" or "en").
func PhrasesFor(locale string) (Phrases, error) {
	switch strings.ToLower(locale) {
	case "zh", "":
		return chinese, nil
	case "en":
		return english, nil
	default:
		return Phrases{}, fmt.Errorf("%w: %q", errors.ErrUnknownLocale, locale)
	}
}

// SystemLine prefixes a status text with the system sender, as in "系统消息: ...".
func (p Phrases) SystemLine(text string) string {
	return p.SystemSender + ": " + text
}

func (p Phrases) RosterLine(names []string) string {
	return p.SystemLine(fmt.Sprintf(p.Roster, len(names), strings.Join(names, " ")))
}

func (p Phrases) Help(transport Transport) []string {
	if transport == Datagram {
		return p.DatagramHelp
	}
	return p.StreamHelp
}

// LoginAck is the private marker line a freshly registered peer receives.
func (p Phrases) LoginAck(transport Transport, name string) string {
	if transport == Datagram {
		return Success(fmt.Sprintf(p.RegisterSucceeded, name))
	}
	return Success(fmt.Sprintf(p.LoginSucceeded, name))
}

func (p Phrases) UnknownCommandLine(transport Transport, command string) string {
	if transport == Datagram {
		return fmt.Sprintf(p.DatagramUnknownCommand, command)
	}
	return fmt.Sprintf(p.UnknownCommand, command)
}

func (p Phrases) NameTakenLine(transport Transport) string {
	if transport == Datagram {
		return Failure(p.NameTaken)
	}
	return Failure(p.NameTakenRetry)
}

// SystemSenders lists the system sender of every locale, so a client can
// recognise status lines whatever the server locale is.
func SystemSenders() []string {
	return []string{chinese.SystemSender, english.SystemSender}
}
