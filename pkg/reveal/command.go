package reveal

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CommandKind identifies an inline pacing command.
type CommandKind string

const (
	// CommandPause holds the reveal for Value seconds.
	CommandPause CommandKind = "pause"
	// CommandSpeed multiplies the base reveal rate by Value.
	CommandSpeed CommandKind = "speed"
)

// Command is a pacing instruction that takes effect once Index runes of the
// text have been revealed.
type Command struct {
	Kind  CommandKind `json:"kind"`
	Index int         `json:"index"`
	Value float64     `json:"value"`
}

func (c Command) String() string {
	return fmt.Sprintf("<%s=%g>@%d", c.Kind, c.Value, c.Index)
}

// ParseCommands strips inline pacing markers from message and returns the
// remaining text with the commands positioned by rune index. Markers look
// like <pause=0.5> or <speed=2>. Anything that is not a well-formed marker,
// including negative pauses and non-positive speeds, is kept as literal
// text. The message is NFC-normalized first so that indexes count composed
// characters.
func ParseCommands(message string) (string, []Command) {
	message = norm.NFC.String(message)

	var (
		text  strings.Builder
		cmds  []Command
		count int
	)
	for len(message) > 0 {
		open := strings.IndexByte(message, '<')
		if open < 0 {
			text.WriteString(message)
			break
		}
		before := message[:open]
		text.WriteString(before)
		count += len([]rune(before))
		message = message[open:]

		closing := strings.IndexByte(message, '>')
		if closing < 0 {
			text.WriteString(message)
			break
		}
		cmd, ok := parseMarker(message[1:closing])
		if !ok {
			text.WriteByte('<')
			count++
			message = message[1:]
			continue
		}
		cmd.Index = count
		cmds = append(cmds, cmd)
		message = message[closing+1:]
	}
	return text.String(), cmds
}

func parseMarker(body string) (Command, bool) {
	key, raw, ok := strings.Cut(body, "=")
	if !ok {
		return Command{}, false
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Command{}, false
	}
	switch CommandKind(strings.TrimSpace(key)) {
	case CommandPause:
		if value < 0 {
			return Command{}, false
		}
		return Command{Kind: CommandPause, Value: value}, true
	case CommandSpeed:
		if value <= 0 {
			return Command{}, false
		}
		return Command{Kind: CommandSpeed, Value: value}, true
	}
	return Command{}, false
}
