package chat

import "strings"

type Command int

const (
	CommandNone Command = iota
	CommandHelp
	CommandHistory
	CommandClear
	CommandExit
	CommandUnknown
)

// ParseCommand recognises the slash commands of the chat loop. Plain text is CommandNone.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return CommandNone
	}
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/help":
		return CommandHelp
	case "/history":
		return CommandHistory
	case "/clear":
		return CommandClear
	case "/exit", "/quit":
		return CommandExit
	default:
		return CommandUnknown
	}
}
