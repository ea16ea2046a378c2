package dialogue

import (
	"testing"

	"github.com/jwebster45206/dialogue-engine/pkg/directive"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"classic", Classic, false},
		{"", Classic, false},
		{"Visual_Novel", VisualNovel, false},
		{"vn", VisualNovel, false},
		{"speech_bubbles", SpeechBubbles, false},
		{"comic", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMode_RoundTripText(t *testing.T) {
	for _, m := range []Mode{Classic, VisualNovel, SpeechBubbles} {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Mode
		if err := got.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if got != m {
			t.Errorf("round trip of %v gave %v", m, got)
		}
	}
}

func TestMode_Recognizes(t *testing.T) {
	tests := []struct {
		mode Mode
		key  directive.Key
		want bool
	}{
		{Classic, directive.Side, true},
		{Classic, directive.Enter, false},
		{VisualNovel, directive.Enter, true},
		{VisualNovel, directive.Side, false},
		{SpeechBubbles, directive.Event, true},
		{SpeechBubbles, directive.Emotion, false},
	}
	for _, tt := range tests {
		if got := tt.mode.Recognizes(tt.key); got != tt.want {
			t.Errorf("%v.Recognizes(%s) = %v, want %v", tt.mode, tt.key, got, tt.want)
		}
	}
}
