package dialogue

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/directive"
)

// Mode selects how a dialogue is presented.
type Mode int

const (
	Classic Mode = iota
	VisualNovel
	SpeechBubbles
)

func (m Mode) String() string {
	switch m {
	case Classic:
		return "classic"
	case VisualNovel:
		return "visual_novel"
	case SpeechBubbles:
		return "speech_bubbles"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts a mode name as written in configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return Classic, nil
	case "visual_novel", "visualnovel", "vn":
		return VisualNovel, nil
	case "speech_bubbles", "speechbubbles", "speech_bubble":
		return SpeechBubbles, nil
	default:
		return 0, fmt.Errorf("unknown dialogue mode %q", s)
	}
}

// UnmarshalText lets Mode be decoded from environment variables and YAML.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

var modeKeys = map[Mode][]directive.Key{
	Classic: {
		directive.Speaker, directive.Aka, directive.Emotion, directive.Event,
		directive.Side,
	},
	VisualNovel: {
		directive.Speaker, directive.Aka, directive.Emotion, directive.Event,
		directive.Start, directive.Active, directive.Enter, directive.Exit,
		directive.Move, directive.Show, directive.Flip, directive.PortraitAnim,
	},
	SpeechBubbles: {
		directive.Speaker, directive.Aka, directive.Event,
	},
}

// Keys returns the directive keys the mode recognizes.
func (m Mode) Keys() []directive.Key {
	return modeKeys[m]
}

// Recognizes reports whether key is handled in this mode.
func (m Mode) Recognizes(key directive.Key) bool {
	for _, k := range modeKeys[m] {
		if k == key {
			return true
		}
	}
	return false
}
