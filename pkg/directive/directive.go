package directive

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned for a tag that is not exactly one key and one value.
var ErrMalformed = errors.New("malformed directive")

// Key is a directive token recognized by at least one presentation mode.
type Key string

const (
	// Mode-independent keys
	Speaker Key = "speaker"
	Aka     Key = "aka"
	Emotion Key = "emotion"
	Event   Key = "event"

	// Classic only
	Side Key = "side"

	// Visual-novel only
	Start        Key = "start"
	Active       Key = "active"
	Enter        Key = "enter"
	Exit         Key = "exit"
	Move         Key = "move"
	Show         Key = "show"
	Flip         Key = "flip"
	PortraitAnim Key = "panim"
)

// Directive is one parsed `key:value` tag.
type Directive struct {
	Key   Key    `json:"key"`
	Value string `json:"value"`
	Raw   string `json:"raw"`
}

func (d Directive) String() string {
	return string(d.Key) + ":" + d.Value
}

// Parse splits a tag on ':' into a trimmed key and value. A tag that does
// not split into exactly two non-empty parts is malformed.
func Parse(tag string) (Directive, error) {
	parts := strings.Split(tag, ":")
	if len(parts) != 2 {
		return Directive{}, fmt.Errorf("%w: %q has %d parts", ErrMalformed, tag, len(parts))
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" || value == "" {
		return Directive{}, fmt.Errorf("%w: %q has an empty key or value", ErrMalformed, tag)
	}
	return Directive{Key: Key(key), Value: value, Raw: tag}, nil
}

// Failure pairs a tag with the error that kept it from parsing.
type Failure struct {
	Tag string
	Err error
}

// ParseAll parses tags in order. Malformed tags are reported as failures and
// do not stop the remaining tags from being parsed.
func ParseAll(tags []string) ([]Directive, []Failure) {
	directives := make([]Directive, 0, len(tags))
	var failures []Failure
	for _, tag := range tags {
		d, err := Parse(tag)
		if err != nil {
			failures = append(failures, Failure{Tag: tag, Err: err})
			continue
		}
		directives = append(directives, d)
	}
	return directives, failures
}
